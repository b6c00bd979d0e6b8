package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/ai-business-plan/backend/internal/plan"
)

const (
	exportTypeUsage     = "usage"
	exportTypeFunding   = "funding"
	exportTypeForecast  = "forecast"
	exportTypeExpenses  = "expenses"
	exportTypeCashFlow  = "cashflow"
	defaultExportFormat = exportTypeUsage
)

// ExportJSON выгружает документ плана в JSON-файл.
func (h *PlanHandler) ExportJSON(c echo.Context) error {
	stored, err := h.loadPlan(c)
	if err != nil || stored == nil {
		return err
	}

	filename := "plan-" + stored.ID.String() + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, stored.Document)
}

// ExportCSV выгружает одну финансовую таблицу плана в CSV-файл.
func (h *PlanHandler) ExportCSV(c echo.Context) error {
	stored, err := h.loadPlan(c)
	if err != nil || stored == nil {
		return err
	}

	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = defaultExportFormat
	}

	var document plan.Plan
	if err := json.Unmarshal(stored.Document, &document); err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if ok, err := writeFinancialCSV(writer, exportType, document.FinancialPlan); !ok {
		return badRequest(c, "invalid export type")
	} else if err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "plan-" + stored.ID.String() + "-" + exportType + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// writeFinancialCSV пишет таблицу по типу выгрузки. false означает неизвестный тип.
func writeFinancialCSV(writer *csv.Writer, exportType string, fp plan.FinancialPlan) (bool, error) {
	var records [][]string

	switch exportType {
	case exportTypeUsage:
		records = append(records, []string{"department", "allocation_percent", "amount", "how_used"})
		for _, row := range fp.UsageOfFunds {
			records = append(records, []string{row.Department, formatPercent(row.AllocationPercent), row.Amount, row.HowUsed})
		}
	case exportTypeFunding:
		records = append(records, []string{"item", "amount"})
		for _, row := range fp.FundingBreakdown {
			records = append(records, []string{row.Item, row.Amount})
		}
	case exportTypeForecast:
		records = append(records, []string{"year", "revenue", "expenses", "net_income"})
		for _, row := range fp.RevenueForecast {
			records = append(records, []string{row.Year, row.Revenue, row.Expenses, row.NetIncome})
		}
	case exportTypeExpenses:
		records = append(records, []string{"category", "monthly", "annual"})
		for _, row := range fp.OperatingExpenses {
			records = append(records, []string{row.Category, row.Monthly, row.Annual})
		}
	case exportTypeCashFlow:
		records = append(records, []string{"period", "beginning_cash", "cash_in", "cash_out", "ending_cash"})
		for _, row := range fp.CashFlow {
			records = append(records, []string{row.Period, row.BeginningCash, row.CashIn, row.CashOut, row.EndingCash})
		}
	default:
		return false, nil
	}

	return true, writer.WriteAll(records)
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
