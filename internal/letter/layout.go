package letter

import "huduma/internal/verification/models"

// Page geometry in centimetres. Vertical positions are baselines measured
// from the top edge of an A4 page.
const (
	pageWidth   = 21.0
	marginX     = 2.0
	marginRight = pageWidth - marginX
	contentW    = marginRight - marginX

	// pt converts PDF points to centimetres.
	pt = 2.54 / 72

	headerY    = 2.2
	headerStep = 0.6
	ruleY      = headerY + 2.3

	photoTop    = 3.2
	photoW      = 4.0
	photoH      = 5.0
	photoLabelY = 5.4
	photoStep   = 0.4

	addressX    = pageWidth - 8.8
	addressY    = 6.2
	addressStep = 0.5
	dateY       = 8.8

	referenceY = 9.3
	addresseeY = 10.0
	subjectY   = 11.2
	bodyY      = 12.4

	fieldValueX = marginX + 4.2
	fieldStep   = 0.6
	leading     = 14 * pt
)

const (
	fontFamily = "Helvetica"

	sizeTitle     = 12.0
	sizeHeader    = 11.0
	sizePhoto     = 8.0
	sizeAddress   = 9.0
	sizeReference = 10.5
	sizeBody      = 10.0
	sizeSubject   = 11.0
)

// Fallback text printed when a value is missing or blank.
const (
	placeholderName  = "........................"
	placeholderDate  = "___/___/_____"
	placeholderRef   = "SM/SN/KN/____"
	placeholderTo    = "Husika / Yeyote Anayehusika"
	placeholderBlank = "______"
)

var headerLines = []string{
	"JAMHURI YA MUUNGANO WA TANZANIA",
	"OFISI YA RAIS",
	"TAWALA ZA MIKOA NA SERIKALI ZA MITAA",
	"HALMASHAURI YA MANISPAA YA MUSOMA",
}

var photoLabel = []string{"BANDIKA", "PICHA", "HAPA"}

var subjects = map[models.RequestType]string{
	models.TypeResidence: "UTAMBULISHO WA MKAZI",
	models.TypeNIDA:      "UTAMBULISHO WA NIDA",
	models.TypeLicense:   "UTAMBULISHO WA LESENI",
}

const defaultSubject = "UTAMBULISHO WA MKAZI"

var (
	introLines = []string{
		"Husika na kichwa cha habari tajwa hapo juu.",
		"Naomba kutambulisha na kumthibitisha ya kwamba ndugu:",
	}
	closingLines = []string{
		"Maelezo hayo hapo juu ni sahihi kwa kadri ya taarifa tulizonazo.",
		"Hivyo basi naomba apatiwe huduma anayoiomba.",
	}
	signatureLines = []string{
		"Imesainiwa na: ________________________________   Mhuri: ______________",
		"Jina la Afisa: ________________________________   Saini: ______________",
	}
)
