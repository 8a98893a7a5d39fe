// Package letter composes and renders the Swahili introduction letter
// issued for an approved verification request.
package letter

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
)

var ErrNotApproved = errors.New("letter: request is not approved")

// Input is everything a letter needs.
type Input struct {
	Request *models.Request
	Citizen models.Citizen
}

// Field is one labelled row in the details table.
type Field struct {
	Label string
	Value string
}

// Letter is the fully resolved text of a letter. Every string is final;
// the renderer does no fallback handling.
type Letter struct {
	RequestID    id.RequestID
	Header       []string
	PhotoLabel   []string
	AddressBlock []string
	Date         string
	Reference    string
	Addressee    string
	Subject      string
	Intro        []string
	Fields       []Field
	Purpose      string
	Closing      []string
	Signatures   []string
}

var titler = cases.Title(language.Und)

func or(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

func place(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return placeholderName
	}
	return titler.String(s)
}

// Compose binds a request and its citizen into letter text.
func Compose(in Input) (*Letter, error) {
	req := in.Request
	if req == nil || req.Status != models.StatusApproved {
		return nil, ErrNotApproved
	}
	d := req.Metadata.Letter()

	phone, address := in.Citizen.Phone, in.Citizen.Address
	if !in.Citizen.HasProfile {
		phone, address = d.Phone, d.Address
	}

	mtaa, ward := place(d.Mtaa), place(d.Ward)
	district, region := place(d.District), place(d.Region)

	subject, ok := subjects[req.Type]
	if !ok {
		subject = defaultSubject
	}

	return &Letter{
		RequestID:  req.ID,
		Header:     headerLines,
		PhotoLabel: photoLabel,
		AddressBlock: []string{
			"OFISI YA SERIKALI ZA MTAA,",
			"MTAA WA " + mtaa,
			"KATA " + ward,
			"WILAYA " + district,
			"MKOA " + region,
		},
		Date:      "TAREHE: " + or(d.LetterDate, placeholderDate),
		Reference: "KUMBUKUMBU NA: " + or(d.ReferenceNo, placeholderRef),
		Addressee: "KWA: " + or(d.To, placeholderTo),
		Subject:   "YAH: " + subject,
		Intro:     introLines,
		Fields: []Field{
			{"Jina", or(in.Citizen.FullName, placeholderName)},
			{"Amezaliwa", or(d.BirthDate, placeholderDate)},
			{"Namba ya simu", or(phone, placeholderBlank)},
			{"Kazi", or(d.Occupation, placeholderBlank)},
			{"Anaishi", or(address, placeholderBlank)},
			{"Mtaa", mtaa},
			{"Kata", ward},
			{"Wilaya", district},
			{"Mkoa", region},
			{"Nyumba No", or(d.HouseNo, placeholderBlank)},
			{"Muda wa Makazi", or(d.StayDuration, placeholderBlank)},
		},
		Purpose:    "Sababu ya barua: " + or(req.Purpose, placeholderBlank),
		Closing:    closingLines,
		Signatures: signatureLines,
	}, nil
}
