package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"solstice_leads/internal/domain/entities"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeFmt   = "2006-01-02 15:04"
)

var contactExportHeaders = []string{
	"ID", "Name", "Email", "Subject", "Message", "Phone", "Company", "Country",
	"Status", "Priority", "Source", "Assigned To", "Resolved At", "Created At",
}

var inquiryExportHeaders = []string{
	"Reference", "Name", "Email", "Company", "Phone", "Product", "Quantity", "Country",
	"Delivery Port", "Urgency", "Budget", "Status", "Priority", "Estimated Value",
	"Quoted Amount", "Quote Currency", "Quote Valid Until", "Customer Type", "Created At",
}

func contactRows(items []entities.Contact) [][]any {
	rows := make([][]any, len(items))
	for k, c := range items {
		rows[k] = []any{
			c.ID, c.Name, c.Email, c.Subject, c.Message, c.Phone, c.Company, c.Country,
			string(c.Status), string(c.Priority), string(c.Source), c.AssignedTo,
			formatOptionalTime(c.ResolvedAt), c.CreatedAt.Format(exportTimeFmt),
		}
	}
	return rows
}

func inquiryRows(items []entities.Inquiry) [][]any {
	rows := make([][]any, len(items))
	for k, i := range items {
		var value, amount, currency, validUntil string
		if i.EstimatedValue != nil {
			value = i.EstimatedValue.StringFixed(2)
		}
		if q := i.QuotedPrice; q != nil {
			amount = q.Amount.StringFixed(2)
			currency = q.Currency
			validUntil = q.ValidUntil.Format(exportTimeFmt)
		}
		rows[k] = []any{
			i.ReferenceNumber(), i.Name, i.Email, i.Company, i.Phone, i.Product, i.FormattedQuantity(), i.Country,
			i.DeliveryPort, string(i.Urgency), string(i.Budget), string(i.Status), string(i.Priority), value,
			amount, currency, validUntil, string(i.CustomerType), i.CreatedAt.Format(exportTimeFmt),
		}
	}
	return rows
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeFmt)
}

// buildWorkbook writes a single sheet with a bold header row.
func buildWorkbook(sheet string, headers []string, rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]any, len(headers))
	for k, h := range headers {
		header[k] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return nil, err
	}

	for k, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, k+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeWorkbook(c *gin.Context, name string, f *excelize.File) error {
	defer f.Close()
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	_, err := f.WriteTo(c.Writer)
	return err
}
