package model

type (
	// CredentialService is the remote parameter store the bot secrets live in.
	CredentialService interface {
		GetAllCredentials() map[string]string
		GetKey(name string) string
	}

	Credential struct {
		Name  string `db:"name"`
		Value string `db:"value"`
	}
)
