package templates

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Parser validates and normalises a context before rendering.
type Parser[T any] func(context T) (T, error)

type TypedTemplate[T any] struct {
	Name         string
	Subject      *texttemplate.Template
	HTMLTemplate *htmltemplate.Template
	TextTemplate *texttemplate.Template
	Parse        Parser[T]
}

type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

func (t *TypedTemplate[T]) GetName() string {
	return t.Name
}

func (t *TypedTemplate[T]) Render(context T) (Rendered, error) {
	if t.Parse != nil {
		parsed, err := t.Parse(context)
		if err != nil {
			return Rendered{}, err
		}
		context = parsed
	}

	var out Rendered
	var buf bytes.Buffer
	if t.Subject != nil {
		if err := t.Subject.Execute(&buf, context); err != nil {
			return Rendered{}, err
		}
		out.Subject = buf.String()
		buf.Reset()
	}

	if err := t.HTMLTemplate.Execute(&buf, context); err != nil {
		return Rendered{}, err
	}
	out.HTML = buf.String()
	buf.Reset()

	if t.TextTemplate != nil {
		if err := t.TextTemplate.Execute(&buf, context); err != nil {
			return Rendered{}, err
		}
		out.Text = buf.String()
	}
	return out, nil
}

func NewTemplate[T any](name, subjectTmpl, htmlTmpl, textTmpl string, parser Parser[T]) (*TypedTemplate[T], error) {
	t := &TypedTemplate[T]{Name: name, Parse: parser}

	var err error
	if subjectTmpl != "" {
		if t.Subject, err = texttemplate.New(name + "_subject").Parse(subjectTmpl); err != nil {
			return nil, err
		}
	}
	if t.HTMLTemplate, err = htmltemplate.New(name + "_html").Parse(htmlTmpl); err != nil {
		return nil, err
	}
	if textTmpl != "" {
		if t.TextTemplate, err = texttemplate.New(name + "_text").Parse(textTmpl); err != nil {
			return nil, err
		}
	}
	return t, nil
}
