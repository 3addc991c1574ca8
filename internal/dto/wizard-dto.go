package dto

import "github.com/dteaa/membership_service/internal/wizard"

type SetFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type JumpRequest struct {
	Step int `json:"step"`
}

type OpenToWorkRequest struct {
	IsOpenToWork bool                      `json:"isOpenToWork"`
	Details      *wizard.OpenToWorkDetails `json:"details,omitempty"`
}

// WizardStepInfo describes one row of the flow for the client's progress bar.
type WizardStepInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type WizardResponse struct {
	Mode     wizard.Mode       `json:"mode"`
	Step     int               `json:"step"`
	StepName string            `json:"stepName"`
	Steps    []WizardStepInfo  `json:"steps"`
	State    *wizard.FormState `json:"state"`
	Errors   wizard.Errors     `json:"errors"`
	Advanced *bool             `json:"advanced,omitempty"`
}

type SubmitResponse struct {
	AlumniID string `json:"alumniId,omitempty"`
	Status   string `json:"status"`
}
