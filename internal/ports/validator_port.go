package ports

// Validator checks a draft against its declarative schema. A failing draft yields an
// *apierr.ValidationError.
type Validator interface {
	Validate(draft any) error
}
