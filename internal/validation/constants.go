package validation

const (
	// Money columns are numeric(12,2)
	MaxAmountScale = 2

	// DateLayout is the accepted report boundary format, e.g. 2024-8-15.
	DateLayout = "2006-1-2"
)
