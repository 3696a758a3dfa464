package domain

// SystemUserID — системный аккаунт платформы, который не помечен как бот.
const SystemUserID = "USLACKBOT"

// Candidate — пользователь, которого можно выбрать апрувером.
type Candidate struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
