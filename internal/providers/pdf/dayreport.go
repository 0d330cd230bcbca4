package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type DayReportData struct {
	Date        string
	FinalizedAt string
	RunID       string

	Initial   []StockLine
	Final     []StockLine
	Shortages []string
	Pendings  []string
	Tasks     []string
}

type StockLine struct {
	Category string
	Name     string
	Quantity string
	Unit     string
	Used     string
	Note     string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateDayReport(ctx context.Context, data DayReportData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Resumen del día", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.Date, props.Text{
			Size:  14,
			Align: align.Right,
			Top:   3,
		}),
	)

	m.AddRow(14,
		col.New(8).Add(
			text.New("Finalizado: "+data.FinalizedAt, props.Text{Top: 0, Size: 9}),
			text.New("Cierre: "+data.RunID, props.Text{Top: 4, Size: 9}),
		),
		col.New(4),
	)

	addStockSection(m, "Stock inicial", data.Initial, false)
	addStockSection(m, "Stock final y uso", data.Final, true)
	addListSection(m, "Faltantes detectados", data.Shortages, "Sin faltantes")
	addListSection(m, "Pendientes para mañana", data.Pendings, "Sin pendientes")
	addListSection(m, "Tareas rotativas", data.Tasks, "Sin tareas")

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func addStockSection(m core.Maroto, title string, lines []StockLine, withUsage bool) {
	m.AddRow(12,
		text.NewCol(12, title, props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)

	if len(lines) == 0 {
		m.AddRow(8,
			text.NewCol(12, "Sin registros", props.Text{Size: 9}),
		)
		return
	}

	if withUsage {
		m.AddRow(8,
			text.NewCol(5, "Producto", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Categoría", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(1, "Usado", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Obs", props.Text{Style: fontstyle.Bold, Size: 9}),
		)
	} else {
		m.AddRow(8,
			text.NewCol(6, "Producto", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(3, "Categoría", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(3, "Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
	}

	for _, line := range lines {
		quantity := line.Quantity + " " + line.Unit
		if withUsage {
			m.AddRow(8,
				text.NewCol(5, line.Name, props.Text{Size: 9}),
				text.NewCol(2, line.Category, props.Text{Size: 9}),
				text.NewCol(2, quantity, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(1, line.Used, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, line.Note, props.Text{Size: 8}),
			)
		} else {
			m.AddRow(8,
				text.NewCol(6, line.Name, props.Text{Size: 9}),
				text.NewCol(3, line.Category, props.Text{Size: 9}),
				text.NewCol(3, quantity, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}
}

func addListSection(m core.Maroto, title string, items []string, emptyLabel string) {
	m.AddRow(12,
		text.NewCol(12, title, props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)

	if len(items) == 0 {
		m.AddRow(8,
			text.NewCol(12, emptyLabel, props.Text{Size: 9}),
		)
		return
	}
	for _, item := range items {
		m.AddRow(8,
			text.NewCol(12, "• "+item, props.Text{Size: 9}),
		)
	}
}
