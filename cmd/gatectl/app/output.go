package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"

	"github.com/depotlink/gatectl/internal/gate"
)

const (
	outputRaw   = "raw"
	outputTable = "table"
)

func newTable() *uitable.Table {
	t := uitable.New()
	t.MaxColWidth = 100
	t.Wrap = true
	return t
}

func writeTable(w io.Writer, t *uitable.Table) error {
	_, err := fmt.Fprintln(w, t)
	return err
}

// writeRaw prints the response body exactly as received.
func writeRaw(w io.Writer, body []byte) error {
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// writeStatus prints a status lookup body. Bodies that do not decode are
// printed raw even in table mode.
func writeStatus(w io.Writer, format string, body []byte) error {
	var s gate.GateStatus
	if format != outputTable || json.Unmarshal(body, &s) != nil {
		return writeRaw(w, body)
	}

	t := newTable()
	t.AddRow("ADVICE NUMBER:", s.AdviceNumber)
	t.AddRow("DEPOT:", fmt.Sprintf("%s (%s, %s)", s.Depot.Name, s.Depot.Code, s.Depot.CompanyID))
	t.AddRow("STATUS:", s.Status)
	t.AddRow("TYPE:", s.Type)
	t.AddRow("ACTIVITY TIME:", s.ActivityTime)
	t.AddRow("EXCHANGE RATE:", s.CurrentExchangeRate)
	t.AddRow("INSPECTION CRITERIA:", s.CurrentInspectionCriteria)
	return writeTable(w, t)
}

// writeEntry prints a creation response body.
func writeEntry(w io.Writer, format string, body []byte) error {
	var e gate.GateEntry
	if format != outputTable || json.Unmarshal(body, &e) != nil {
		return writeRaw(w, body)
	}

	t := newTable()
	t.AddRow("ADVICE NUMBER:", e.AdviceNumber)
	t.AddRow("CUSTOMER REFERENCE:", e.CustomerReference)
	t.AddRow("TRANSACTION REFERENCE:", e.TransactionReference)
	if c := e.InsuranceCoverage; c != nil {
		t.AddRow("COVERAGE:", fmt.Sprintf("%.2f %s", c.AmountCovered, c.AmountCurrency))
		t.AddRow("ALL OR NOTHING:", c.AllOrNothing)
		t.AddRow("APPLIES TO CTL:", c.AppliesToCTL)
		if len(c.Exclusions) > 0 {
			t.AddRow("EXCLUSIONS:", strings.Join(c.Exclusions, ", "))
		}
	}
	t.AddRow("EXCHANGE RATE:", e.CurrentExchangeRate)
	t.AddRow("INSPECTION CRITERIA:", e.CurrentInspectionCriteria)
	if len(e.Comments) > 0 {
		t.AddRow("COMMENTS:", strings.Join(e.Comments, "; "))
	}
	return writeTable(w, t)
}

func chainLabel(i int) string {
	if i == 0 {
		return "CHAIN:"
	}
	return ""
}
