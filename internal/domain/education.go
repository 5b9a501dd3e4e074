package domain

// Valores crudos del formulario para el nivel educativo.
const (
	EducationSchoolPupil          = "school_pupil"
	EducationStudent              = "student"
	EducationSecondary            = "secondary_education"
	EducationSpecializedSecondary = "specialized_secondary_education"
	EducationHigher               = "higher_education"
	EducationAcademicDegree       = "academic_degree"
)

// EducationOption es un valor del enumerado con su etiqueta visible.
type EducationOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EducationOptions lista el enumerado cerrado en el orden de presentación.
// El último elemento es además el destino de cualquier valor desconocido.
var EducationOptions = []EducationOption{
	{Value: EducationSchoolPupil, Label: "школьник"},
	{Value: EducationStudent, Label: "студент"},
	{Value: EducationSecondary, Label: "среднее общее"},
	{Value: EducationSpecializedSecondary, Label: "среднее специальное"},
	{Value: EducationHigher, Label: "высшее"},
	{Value: EducationAcademicDegree, Label: "научная степень"},
}

// FallbackEducationLabel recibe los valores fuera del enumerado.
var FallbackEducationLabel = EducationOptions[len(EducationOptions)-1].Label

// EducationLabel traduce un valor crudo a su etiqueta. known es false cuando
// el valor no pertenece al enumerado y se devolvió la etiqueta de respaldo.
func EducationLabel(raw string) (label string, known bool) {
	for _, opt := range EducationOptions {
		if opt.Value == raw {
			return opt.Label, true
		}
	}
	return FallbackEducationLabel, false
}
