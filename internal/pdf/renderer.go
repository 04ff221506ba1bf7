// Package pdf renders bingo sheets into printable documents.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"

	"benji/internal/models"
)

// Renderer turns one sheet's payload into a rendered document.
// Implementations are pure with respect to their inputs and must not
// touch the store.
type Renderer interface {
	Render(generationCode string, sheetNumber int, payload models.SheetPayload) ([]byte, error)
}

const (
	pageMargin     = 18
	headerFontSize = 14
	cellFontSize   = 12
	footerFontSize = 9
	cardPadding    = 8
)

// SheetRenderer renders A4 PDF sheets: a header with the generation
// code and sheet number, the four cards in a 2x2 layout and an
// optional watermark image behind the content.
type SheetRenderer struct {
	watermarkPath string

	regular *model.PdfFont
	bold    *model.PdfFont

	// now stamps the footer; replaceable in tests.
	now func() time.Time
}

// NewSheetRenderer constructs a SheetRenderer. watermarkPath may be
// empty or point at a missing file; the sheet is then rendered without
// a watermark.
func NewSheetRenderer(watermarkPath string) (*SheetRenderer, error) {
	regular, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return nil, fmt.Errorf("load base font: %w", err)
	}
	bold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}

	return &SheetRenderer{
		watermarkPath: watermarkPath,
		regular:       regular,
		bold:          bold,
		now:           time.Now,
	}, nil
}

// Render produces the PDF bytes for one sheet.
func (r *SheetRenderer) Render(generationCode string, sheetNumber int, payload models.SheetPayload) ([]byte, error) {
	c := creator.New()
	c.SetPageSize(creator.PageSizeA4)
	c.SetPageMargins(pageMargin, pageMargin, pageMargin, pageMargin)

	c.NewPage()

	if err := r.drawWatermark(c); err != nil {
		return nil, err
	}
	if err := r.drawHeader(c, generationCode, sheetNumber); err != nil {
		return nil, err
	}
	if err := r.drawCards(c, generationCode, payload); err != nil {
		return nil, err
	}
	if err := r.drawFooter(c); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *SheetRenderer) drawWatermark(c *creator.Creator) error {
	if r.watermarkPath == "" {
		return nil
	}
	data, err := os.ReadFile(r.watermarkPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read watermark: %w", err)
	}

	img, err := c.NewImageFromData(data)
	if err != nil {
		return fmt.Errorf("load watermark image: %w", err)
	}

	width := c.Context().PageWidth * 0.7
	img.ScaleToWidth(width)
	img.SetPos(
		(c.Context().PageWidth-width)/2,
		(c.Context().PageHeight-img.Height())/2,
	)
	return c.Draw(img)
}

func (r *SheetRenderer) drawHeader(c *creator.Creator, generationCode string, sheetNumber int) error {
	table := c.NewTable(2)

	left := c.NewParagraph(fmt.Sprintf("Benji • Gen: %s", generationCode))
	left.SetFont(r.bold)
	left.SetFontSize(headerFontSize)

	right := c.NewParagraph(fmt.Sprintf("Tabla #%d", sheetNumber))
	right.SetFont(r.bold)
	right.SetFontSize(headerFontSize)
	right.SetTextAlignment(creator.TextAlignmentRight)

	for _, p := range []*creator.Paragraph{left, right} {
		cell := table.NewCell()
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleNone, 0)
		if err := cell.SetContent(p); err != nil {
			return err
		}
	}

	return c.Draw(table)
}

func (r *SheetRenderer) drawCards(c *creator.Creator, generationCode string, payload models.SheetPayload) error {
	layout := c.NewTable(2)
	layout.SetMargins(0, 0, 10, 0)

	for i := 0; i < models.CardsPerSheet; i++ {
		var card *models.Card
		if i < len(payload.Cards) {
			card = &payload.Cards[i]
		}

		cell := layout.NewCell()
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 1)
		cell.SetIndent(cardPadding)

		content, err := r.cardTable(c, generationCode, card)
		if err != nil {
			return err
		}
		if err := cell.SetContent(content); err != nil {
			return err
		}
	}

	return c.Draw(layout)
}

func (r *SheetRenderer) cardTable(c *creator.Creator, generationCode string, card *models.Card) (*creator.Table, error) {
	table := c.NewTable(models.GridSize)
	table.SetMargins(cardPadding, cardPadding, cardPadding, cardPadding)

	for _, letter := range []string{"B", "I", "N", "G", "O"} {
		p := c.NewParagraph(letter)
		p.SetFont(r.bold)
		p.SetFontSize(cellFontSize)
		p.SetTextAlignment(creator.TextAlignmentCenter)

		cell := table.NewCell()
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleNone, 0)
		if err := cell.SetContent(p); err != nil {
			return nil, err
		}
	}

	if card == nil {
		p := c.NewParagraph(fmt.Sprintf("invalid card (Gen: %s)", generationCode))
		p.SetFont(r.regular)
		p.SetFontSize(cellFontSize)
		cell := table.MultiColCell(models.GridSize)
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleNone, 0)
		if err := cell.SetContent(p); err != nil {
			return nil, err
		}
		return table, nil
	}

	for row := 0; row < models.GridSize; row++ {
		for col := 0; col < models.GridSize; col++ {
			p := c.NewParagraph(fmt.Sprintf("%d", card.Grid[row][col]))
			p.SetFont(r.regular)
			p.SetFontSize(cellFontSize)
			p.SetTextAlignment(creator.TextAlignmentCenter)

			cell := table.NewCell()
			cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 1)
			cell.SetVerticalAlignment(creator.CellVerticalAlignmentMiddle)
			if err := cell.SetContent(p); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

func (r *SheetRenderer) drawFooter(c *creator.Creator) error {
	p := c.NewParagraph(fmt.Sprintf("Generado: %s", r.now().Format("2006-01-02 15:04")))
	p.SetFont(r.regular)
	p.SetFontSize(footerFontSize)
	p.SetTextAlignment(creator.TextAlignmentCenter)
	p.SetMargins(0, 0, 12, 0)
	return c.Draw(p)
}
