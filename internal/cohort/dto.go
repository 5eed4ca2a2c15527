package cohort

type CreateCohortTypeRequest struct {
	Name string `json:"name"`
}

type CohortTypesResponse struct {
	CohortTypes []*CohortType `json:"cohort_types"`
}

type BatchesResponse struct {
	Batches []*Batch `json:"batches"`
}
