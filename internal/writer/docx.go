package writer

import (
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/stypes"
)

// docxDocument renders into a .docx file via godocx.
type docxDocument struct {
	root *docx.RootDoc
}

// NewDocx is the default DocumentFactory.
func NewDocx() (Document, error) {
	root, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}
	return &docxDocument{root: root}, nil
}

func (d *docxDocument) AddTitle(text string) error {
	p, err := d.root.AddHeading(text, 0)
	if err != nil {
		return err
	}
	p.Justification(stypes.JustificationCenter)
	return nil
}

func (d *docxDocument) AddHeading(text string, level int) error {
	_, err := d.root.AddHeading(text, uint(level))
	return err
}

func (d *docxDocument) AddParagraph(runs ...Run) {
	p := d.root.AddEmptyParagraph()
	for _, r := range runs {
		run := p.AddText(r.Text)
		if r.Bold {
			run.Bold(true)
		}
	}
}

func (d *docxDocument) AddPageBreak() {
	d.root.AddPageBreak()
}

func (d *docxDocument) Save(path string) error {
	return d.root.SaveTo(path)
}
