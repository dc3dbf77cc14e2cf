package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWelcomeEmail = "notification.email.welcome"

type WelcomeEmailPayload struct {
	UserID           string `json:"userId"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	OrganisationName string `json:"organisationName"`
}

func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeEmail, data), nil
}

func ParseWelcomeEmailPayload(task *asynq.Task) (WelcomeEmailPayload, error) {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WelcomeEmailPayload{}, err
	}
	return payload, nil
}
