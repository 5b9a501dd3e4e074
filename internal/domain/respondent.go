package domain

// Respondent es el perfil demográfico de una persona encuestada.
type Respondent struct {
	ID             int64  `json:"id"`
	Age            int    `json:"age"`
	EducationLevel string `json:"level_of_education"`
	Specialization string `json:"specialization,omitempty"`
}

// Answer agrupa las cuatro respuestas de un encuestado; ID coincide con Respondent.ID.
type Answer struct {
	ID int64  `json:"id"`
	Q1 string `json:"generation"`
	Q2 string `json:"culture_of_speech"`
	Q3 string `json:"stylistic_coloring"`
	Q4 string `json:"intellectual_speech"`
}

// AnswerField identifica una columna de respuestas.
type AnswerField string

const (
	FieldQ1 AnswerField = "q1"
	FieldQ2 AnswerField = "q2"
	FieldQ3 AnswerField = "q3"
	FieldQ4 AnswerField = "q4"
)

// Valid indica si el campo es una de las cuatro columnas conocidas.
func (f AnswerField) Valid() bool {
	switch f {
	case FieldQ1, FieldQ2, FieldQ3, FieldQ4:
		return true
	default:
		return false
	}
}

// Value devuelve el valor del campo indicado en la respuesta.
func (a Answer) Value(f AnswerField) string {
	switch f {
	case FieldQ1:
		return a.Q1
	case FieldQ2:
		return a.Q2
	case FieldQ3:
		return a.Q3
	case FieldQ4:
		return a.Q4
	default:
		return ""
	}
}
