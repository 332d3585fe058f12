package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidBill reports a bill document that cannot be stored.
	ErrInvalidBill = errors.New("invalid bill")

	// ErrBillExists reports a create for a month that already has a bill.
	ErrBillExists = errors.New("bill already exists")
)

// BillDocument is the JSON form of a bill, shared by the import command and
// the bills API.
type BillDocument struct {
	Month       string               `json:"month"`
	Subscribers []SubscriberDocument `json:"subscribers"`
	Charges     []ChargeDocument     `json:"charges"`
}

type SubscriberDocument struct {
	Name      string          `json:"name"`
	Number    string          `json:"number"`
	Phone     decimal.Decimal `json:"phone"`
	Line      decimal.Decimal `json:"line"`
	Insurance decimal.Decimal `json:"insurance"`
	Usage     decimal.Decimal `json:"usage"`
	Minutes   int64           `json:"minutes"`
	Messages  int64           `json:"messages"`
	Data      decimal.Decimal `json:"data"`
	Total     decimal.Decimal `json:"total"`
}

type ChargeDocument struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Split bool            `json:"split"`
}

// DecodeBill reads one bill document, validates it and derives the missing
// subscriber totals. Every failure wraps ErrInvalidBill.
func DecodeBill(r io.Reader) (*Bill, error) {
	var doc BillDocument
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode: %v", ErrInvalidBill, err)
	}
	return doc.Bill()
}

// Bill converts the document into a bill with its totals filled in.
func (doc BillDocument) Bill() (*Bill, error) {
	month, err := ParseMonth(doc.Month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBill, err)
	}
	if len(doc.Subscribers) == 0 {
		return nil, fmt.Errorf("%w: bill %s has no subscribers", ErrInvalidBill, doc.Month)
	}

	bill := &Bill{Month: month}
	for i, s := range doc.Subscribers {
		if s.Name == "" || s.Number == "" {
			return nil, fmt.Errorf("%w: subscriber %d: name and number are required", ErrInvalidBill, i)
		}
		bill.Subscribers = append(bill.Subscribers, Subscriber{
			Name:      s.Name,
			Number:    s.Number,
			Phone:     s.Phone,
			Line:      s.Line,
			Insurance: s.Insurance,
			Usage:     s.Usage,
			Minutes:   s.Minutes,
			Messages:  s.Messages,
			Data:      s.Data,
			Total:     s.Total,
		})
	}
	for i, c := range doc.Charges {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: charge %d: name is required", ErrInvalidBill, i)
		}
		bill.Charges = append(bill.Charges, Charge{Name: c.Name, Total: c.Total, Split: c.Split})
	}

	bill.FillTotals()
	return bill, nil
}

// NewBillDocument is the inverse of BillDocument.Bill.
func NewBillDocument(b *Bill) BillDocument {
	doc := BillDocument{
		Month:       FormatMonth(b.Month),
		Subscribers: make([]SubscriberDocument, 0, len(b.Subscribers)),
		Charges:     make([]ChargeDocument, 0, len(b.Charges)),
	}
	for _, s := range b.Subscribers {
		doc.Subscribers = append(doc.Subscribers, NewSubscriberDocument(s))
	}
	for _, c := range b.Charges {
		doc.Charges = append(doc.Charges, ChargeDocument{Name: c.Name, Total: c.Total, Split: c.Split})
	}
	return doc
}

func NewSubscriberDocument(s Subscriber) SubscriberDocument {
	return SubscriberDocument{
		Name:      s.Name,
		Number:    s.Number,
		Phone:     s.Phone,
		Line:      s.Line,
		Insurance: s.Insurance,
		Usage:     s.Usage,
		Minutes:   s.Minutes,
		Messages:  s.Messages,
		Data:      s.Data,
		Total:     s.Total,
	}
}
