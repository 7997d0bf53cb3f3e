package grammar

import (
	"fmt"
	"strings"
)

func (f *File) String() string {
	var b strings.Builder
	for _, e := range f.Entries {
		b.WriteString(e.String())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *Entry) String() string {
	switch {
	case e.Operator != nil:
		return e.Operator.String()
	case e.Directive != nil:
		return e.Directive.String()
	case e.Rule != nil:
		return e.Rule.String()
	}
	return ""
}

func (o *Operator) String() string {
	return fmt.Sprintf("%%operator %s = %s", o.Name, o.Lexeme)
}

func (d *Directive) String() string {
	return fmt.Sprintf("%s = %s", d.Key, d.Value)
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s = %s", r.Name, r.Pattern)
}
