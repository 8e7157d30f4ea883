package models

import "time"

// WizardStep numbers the will wizard pages
type WizardStep int

const (
	WizardStepPersonal      WizardStep = 1
	WizardStepAssets        WizardStep = 2
	WizardStepBeneficiaries WizardStep = 3
	WizardStepExecutor      WizardStep = 4
	WizardStepReview        WizardStep = 5
)

// Title is the page heading shown for the step
func (s WizardStep) Title() string {
	switch s {
	case WizardStepPersonal:
		return "Personal details"
	case WizardStepAssets:
		return "Assets"
	case WizardStepBeneficiaries:
		return "Beneficiaries"
	case WizardStepExecutor:
		return "Executor and witnesses"
	case WizardStepReview:
		return "Review and generate"
	}
	return "Unknown"
}

// WizardState is the explicit state of one will wizard session
type WizardState struct {
	SessionID string       `json:"session_id"`
	Step      WizardStep   `json:"step"`
	StepTitle string       `json:"step_title"`
	Will      WillDocument `json:"will"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// WizardStepInput is the payload of one wizard page. Only the fields of the current step are read.
type WizardStepInput struct {
	TestatorName  string        `json:"testator_name"`
	Address       string        `json:"address"`
	IDNumber      string        `json:"id_number"`
	MaritalStatus string        `json:"marital_status"`
	Assets        []string      `json:"assets"`
	Beneficiaries []Beneficiary `json:"beneficiaries"`
	ExecutorName  string        `json:"executor_name"`
	Witnesses     []string      `json:"witnesses"`
}
