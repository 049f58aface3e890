package session

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	envUser     = "UNITY_USER"
	envPassword = "UNITY_PASSWORD"
)

// Credentials are the portal login credentials.
type Credentials struct {
	Username string
	Password string
}

// LoadCredentials reads credentials from the env file, falling back to the
// process environment so CI and containers can inject them directly.
func LoadCredentials(envPath string) (Credentials, error) {
	values := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		values, err = godotenv.Read(envPath)
		if err != nil {
			return Credentials{}, fmt.Errorf("reading %s: %w", envPath, err)
		}
	}

	creds := Credentials{Username: values[envUser], Password: values[envPassword]}
	if creds.Username == "" {
		creds.Username = os.Getenv(envUser)
	}
	if creds.Password == "" {
		creds.Password = os.Getenv(envPassword)
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, ErrMissingCredentials
	}
	return creds, nil
}

// SaveCredentials persists credentials to the env file for the next run.
func SaveCredentials(envPath string, creds Credentials) error {
	values := map[string]string{}
	if existing, err := godotenv.Read(envPath); err == nil {
		values = existing
	}
	values[envUser] = creds.Username
	values[envPassword] = creds.Password
	return godotenv.Write(values, envPath)
}
