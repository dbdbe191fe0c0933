package decoder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout maps the fields the decoder understands onto source column names.
// The zero value of a field means "use the default column".
type Layout struct {
	ID            string `yaml:"id"`
	InvoiceNumber string `yaml:"invoice_number"`
	IssueDate     string `yaml:"issue_date"`
	DueDate       string `yaml:"due_date"`
	CustomerName  string `yaml:"customer_name"`
	CustomerICO   string `yaml:"customer_ico"`
	CustomerDIC   string `yaml:"customer_dic"`
	Street        string `yaml:"street"`
	PostalCode    string `yaml:"postal_code"`
	City          string `yaml:"city"`
	AmountZero    string `yaml:"amount_zero"`
	AmountReduced string `yaml:"amount_reduced"`
	AmountBasic   string `yaml:"amount_basic"`
	AmountThird   string `yaml:"amount_third"`
	TaxReduced    string `yaml:"tax_reduced"`
	TaxBasic      string `yaml:"tax_basic"`
	TaxThird      string `yaml:"tax_third"`
	GrandTotal    string `yaml:"grand_total"`
	VarSym        string `yaml:"varsym"`
	Notes         string `yaml:"notes"`
	TypeCode      string `yaml:"type_code"`
	KindCode      string `yaml:"kind_code"`
}

// DefaultLayout is the column layout of the Pohoda FA table.
func DefaultLayout() Layout {
	return Layout{
		ID:            "ID",
		InvoiceNumber: "Cislo",
		IssueDate:     "Datum",
		DueDate:       "DatSplat",
		CustomerName:  "Firma",
		CustomerICO:   "ICO",
		CustomerDIC:   "DIC",
		Street:        "Ulice",
		PostalCode:    "PSC",
		City:          "Obec",
		AmountZero:    "Kc0",
		AmountReduced: "Kc1",
		AmountBasic:   "Kc2",
		AmountThird:   "Kc3",
		TaxReduced:    "KcDPH1",
		TaxBasic:      "KcDPH2",
		TaxThird:      "KcDPH3",
		GrandTotal:    "KcCelkem",
		VarSym:        "VarSym",
		Notes:         "SText",
		TypeCode:      "RelTpFak",
		KindCode:      "RelDrFak",
	}
}

// LoadLayout reads a YAML layout file. Fields left out of the file keep
// their DefaultLayout column.
func LoadLayout(path string) (Layout, error) {
	const op = "LoadLayout"

	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("%s: failed to read %s: %w", op, path, err)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("%s: failed to parse %s: %w", op, path, err)
	}
	return l.withDefaults(), nil
}

func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.ID, d.ID)
	fill(&l.InvoiceNumber, d.InvoiceNumber)
	fill(&l.IssueDate, d.IssueDate)
	fill(&l.DueDate, d.DueDate)
	fill(&l.CustomerName, d.CustomerName)
	fill(&l.CustomerICO, d.CustomerICO)
	fill(&l.CustomerDIC, d.CustomerDIC)
	fill(&l.Street, d.Street)
	fill(&l.PostalCode, d.PostalCode)
	fill(&l.City, d.City)
	fill(&l.AmountZero, d.AmountZero)
	fill(&l.AmountReduced, d.AmountReduced)
	fill(&l.AmountBasic, d.AmountBasic)
	fill(&l.AmountThird, d.AmountThird)
	fill(&l.TaxReduced, d.TaxReduced)
	fill(&l.TaxBasic, d.TaxBasic)
	fill(&l.TaxThird, d.TaxThird)
	fill(&l.GrandTotal, d.GrandTotal)
	fill(&l.VarSym, d.VarSym)
	fill(&l.Notes, d.Notes)
	fill(&l.TypeCode, d.TypeCode)
	fill(&l.KindCode, d.KindCode)
	return l
}

// Required lists the columns a row must carry to be decodable at all.
func (l Layout) Required() []string {
	return []string{l.ID, l.InvoiceNumber}
}

// Columns lists every column the layout reads, in a stable order.
func (l Layout) Columns() []string {
	return []string{
		l.ID, l.InvoiceNumber, l.IssueDate, l.DueDate,
		l.CustomerName, l.CustomerICO, l.CustomerDIC,
		l.Street, l.PostalCode, l.City,
		l.AmountZero, l.AmountReduced, l.AmountBasic, l.AmountThird,
		l.TaxReduced, l.TaxBasic, l.TaxThird,
		l.GrandTotal, l.VarSym, l.Notes,
		l.TypeCode, l.KindCode,
	}
}
