package models

// Metadata keys understood by the letter template.
const (
	KeyReferenceNo  = "reference_no"
	KeyTo           = "to"
	KeyWard         = "ward"
	KeyMtaa         = "mtaa"
	KeyRegion       = "region"
	KeyDistrict     = "district"
	KeyHouseNo      = "house_no"
	KeyBirthDate    = "birth_date"
	KeyOccupation   = "occupation"
	KeyStayDuration = "stay_duration"
	KeyLetterDate   = "letter_date"
	KeyPhone        = "phone"
	KeyAddress      = "address"
)

// LetterSchema declares which metadata keys a request type needs before
// it can be saved.
type LetterSchema struct {
	Required []string
	Optional []string
}

var mtaaLetter = LetterSchema{
	Required: []string{
		KeyReferenceNo, KeyTo, KeyWard, KeyMtaa, KeyRegion, KeyDistrict,
		KeyHouseNo, KeyBirthDate, KeyOccupation, KeyStayDuration, KeyLetterDate,
	},
	Optional: []string{KeyPhone, KeyAddress},
}

// All current request types print the same letter layout. A type with no
// entry here skips the completeness check.
var schemas = map[RequestType]LetterSchema{
	TypeResidence: mtaaLetter,
	TypeNIDA:      mtaaLetter,
	TypeLicense:   mtaaLetter,
}

func SchemaFor(t RequestType) (LetterSchema, bool) {
	s, ok := schemas[t]
	return s, ok
}

// Missing returns the required keys that are absent or blank in m, in
// declaration order.
func (s LetterSchema) Missing(m Metadata) []string {
	var missing []string
	for _, k := range s.Required {
		if !m.Present(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// LetterDetails is the typed view of metadata used by the renderer. Each
// field is trimmed text, "" when absent or blank.
type LetterDetails struct {
	ReferenceNo  string
	To           string
	Ward         string
	Mtaa         string
	Region       string
	District     string
	HouseNo      string
	BirthDate    string
	Occupation   string
	StayDuration string
	LetterDate   string
	Phone        string
	Address      string
}

func (m Metadata) Letter() LetterDetails {
	return LetterDetails{
		ReferenceNo:  m.Text(KeyReferenceNo),
		To:           m.Text(KeyTo),
		Ward:         m.Text(KeyWard),
		Mtaa:         m.Text(KeyMtaa),
		Region:       m.Text(KeyRegion),
		District:     m.Text(KeyDistrict),
		HouseNo:      m.Text(KeyHouseNo),
		BirthDate:    m.Text(KeyBirthDate),
		Occupation:   m.Text(KeyOccupation),
		StayDuration: m.Text(KeyStayDuration),
		LetterDate:   m.Text(KeyLetterDate),
		Phone:        m.Text(KeyPhone),
		Address:      m.Text(KeyAddress),
	}
}
