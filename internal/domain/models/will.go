package models

// Beneficiary is one entry of the beneficiary article, rendered verbatim
type Beneficiary struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
	Share        string `json:"share" validate:"required"`
}

// WillDocument is the transient input for will generation. It is never persisted.
type WillDocument struct {
	TestatorName  string        `json:"testator_name"`
	Address       string        `json:"address"`
	IDNumber      string        `json:"id_number,omitempty"`
	MaritalStatus string        `json:"marital_status,omitempty"`
	Assets        []string      `json:"assets"`
	Beneficiaries []Beneficiary `json:"beneficiaries"`
	ExecutorName  string        `json:"executor_name"`
	Witnesses     []string      `json:"witnesses"`
}

// WillSection is one block of the rendered will layout
type WillSection struct {
	Heading    string   `json:"heading"`
	Paragraphs []string `json:"paragraphs"`
	NewPage    bool     `json:"new_page,omitempty"`
}
