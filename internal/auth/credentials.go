package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("invalid username or password")

// Identity is the output of credential verification: who the caller is and
// which role they hold.
type Identity struct {
	Username string
	Role     string
}

// CredentialVerifier authenticates a username/password pair. The concrete
// strategy is selected once at startup; business logic never branches on
// environment.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (Identity, error)
}

// FixedCredential is one entry of the fixed store. PasswordHash is a bcrypt
// hash, never plaintext.
type FixedCredential struct {
	Username     string
	PasswordHash string
	Role         string
}

// FixedCredentialStore verifies against a static credential list. Used for
// development and demo deployments.
type FixedCredentialStore struct {
	users []FixedCredential
}

func NewFixedCredentialStore(users []FixedCredential) *FixedCredentialStore {
	return &FixedCredentialStore{users: users}
}

func (s *FixedCredentialStore) Verify(_ context.Context, username, password string) (Identity, error) {
	for _, u := range s.users {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return Identity{}, ErrBadCredentials
		}
		return Identity{Username: u.Username, Role: u.Role}, nil
	}
	return Identity{}, ErrBadCredentials
}

// DirectoryClient verifies credentials against the external credential
// bridge over HTTP. The bridge owns the directory bind; this client only
// consumes its {status, role} answer.
type DirectoryClient struct {
	baseURL string
	client  *http.Client
}

func NewDirectoryClient(baseURL string) *DirectoryClient {
	return &DirectoryClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DirectoryClient) Verify(ctx context.Context, username, password string) (Identity, error) {
	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/bind", d.baseURL), bytes.NewBuffer(payload))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Identity{}, ErrBadCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("credential bridge returned status: %d", resp.StatusCode)
	}

	var body struct {
		Status bool   `json:"status"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, err
	}
	if !body.Status {
		return Identity{}, ErrBadCredentials
	}
	return Identity{Username: username, Role: body.Role}, nil
}

// VerifierChain tries each verifier in order, answering with the first
// success. A fixed store followed by the directory client reproduces the
// demo-users-then-directory login order.
type VerifierChain []CredentialVerifier

func (c VerifierChain) Verify(ctx context.Context, username, password string) (Identity, error) {
	for _, v := range c {
		id, err := v.Verify(ctx, username, password)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrBadCredentials) {
			return Identity{}, err
		}
	}
	return Identity{}, ErrBadCredentials
}
