package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	historydomain "github.com/cocinamqb/stockdiario/internal/history/domain"
	"github.com/cocinamqb/stockdiario/internal/providers/pdf"
	"github.com/gin-gonic/gin"
	shortagedomain "github.com/cocinamqb/stockdiario/internal/shortage/domain"
)

func (s *Server) ListHistoryDates(c *gin.Context) {
	resp, err := s.historySvc.ListDates(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetHistoryDay(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	resp, err := s.historySvc.FindByDate(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetHistoryDaySummary(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	resp, err := s.historySvc.FindByDate(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.String(http.StatusOK, resp.Summary)
}

func (s *Server) GetHistoryDayPDF(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	record, err := s.historySvc.FindByDate(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := dayReportFromRecord(record)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateDayReport(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="resumen-`+strings.ReplaceAll(record.Date, "/", "-")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func dayReportFromRecord(record *historydomain.Response) (pdf.DayReportData, error) {
	var initial, final []countdomain.Response
	if len(record.Initial) > 0 {
		if err := json.Unmarshal(record.Initial, &initial); err != nil {
			return pdf.DayReportData{}, err
		}
	}
	if len(record.Final) > 0 {
		if err := json.Unmarshal(record.Final, &final); err != nil {
			return pdf.DayReportData{}, err
		}
	}
	var shortages []shortagedomain.Response
	if len(record.Shortages) > 0 {
		if err := json.Unmarshal(record.Shortages, &shortages); err != nil {
			return pdf.DayReportData{}, err
		}
	}

	initialByName := countdomain.IndexByName(initial)

	data := pdf.DayReportData{
		Date:        record.Date,
		FinalizedAt: record.FinalizedAt.Format("02/01/2006 15:04"),
		RunID:       record.RunID,
	}
	for _, entry := range initial {
		data.Initial = append(data.Initial, pdf.StockLine{
			Category: entry.Category,
			Name:     entry.Name,
			Quantity: entry.Quantity.String(),
			Unit:     entry.Unit,
		})
	}
	for _, entry := range final {
		data.Final = append(data.Final, pdf.StockLine{
			Category: entry.Category,
			Name:     entry.Name,
			Quantity: entry.Quantity.String(),
			Unit:     entry.Unit,
			Used:     countdomain.Usage(initialByName, entry).String(),
			Note:     entry.Note,
		})
	}
	for _, shortage := range shortages {
		data.Shortages = append(data.Shortages, shortage.Description)
	}
	for _, pending := range record.Pendings {
		data.Pendings = append(data.Pendings, pending.Text)
	}
	for _, task := range record.Tasks {
		line := task.Description
		if task.DueDate != "" {
			line = task.DueDate + ": " + line
		}
		if task.Assignee != "" {
			line += " (Encargado: " + task.Assignee + ")"
		}
		data.Tasks = append(data.Tasks, line)
	}

	return data, nil
}
