package domain

// CategoryCount es una porción de una distribución categórica.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StatisticsSummary es la foto derivada de todas las respuestas actuales.
type StatisticsSummary struct {
	TotalRespondents                int             `json:"total_num_of_respondents"`
	AgeMin                          int             `json:"age_min"`
	AgeMax                          int             `json:"age_max"`
	AgeMean                         int             `json:"age_mean"`
	MostPopularAnswerToQ1           string          `json:"most_popular_q1_answer"`
	MostPopularAnswerToQ1Percentage float64         `json:"most_popular_q1_answer_percentage"`
	EducationDistribution           []CategoryCount `json:"education_distribution"`
}
