package auth

import (
	"strings"
	"sync"
)

// Account is a login credential record. The application ships with a fixed
// set of demo accounts; there is no self-signup surface.
type Account struct {
	ID             string
	Email          string
	Name           string
	Role           Role
	OrganizationID string
	TeamID         string
	PasswordHash   string
	MFAEnabled     bool
	MFASecretEnc   []byte
}

// AccountStore holds accounts in memory. Reads dominate; the only writes are
// the MFA enrolment updates.
type AccountStore struct {
	mu       sync.RWMutex
	byEmail  map[string]*Account
	accounts []*Account
}

func NewAccountStore(accounts []Account) *AccountStore {
	store := &AccountStore{byEmail: make(map[string]*Account, len(accounts))}
	for i := range accounts {
		account := accounts[i]
		store.accounts = append(store.accounts, &account)
		store.byEmail[strings.ToLower(account.Email)] = &account
	}
	return store
}

// DemoAccounts builds the six fixed test accounts, all sharing the password
// "password123". The hash is computed once and reused.
func DemoAccounts() (*AccountStore, error) {
	hash, err := HashPassword("password123")
	if err != nil {
		return nil, err
	}
	accounts := []Account{
		{ID: "u1", Email: "admin@kiwihr.co.nz", Name: "Alex Morgan", Role: RoleSuperAdmin, OrganizationID: "org1", PasswordHash: hash},
		{ID: "u2", Email: "hr.manager@kiwihr.co.nz", Name: "Sarah Chen", Role: RoleHRManager, OrganizationID: "org1", PasswordHash: hash},
		{ID: "u3", Email: "team.leader@kiwihr.co.nz", Name: "Mike Te Rangi", Role: RoleTeamLeader, OrganizationID: "org1", TeamID: "team1", PasswordHash: hash},
		{ID: "u4", Email: "payroll@kiwihr.co.nz", Name: "Priya Patel", Role: RolePayrollAdmin, OrganizationID: "org1", PasswordHash: hash},
		{ID: "u5", Email: "compliance@kiwihr.co.nz", Name: "James Wilson", Role: RoleComplianceOfficer, OrganizationID: "org1", PasswordHash: hash},
		{ID: "u6", Email: "employee@kiwihr.co.nz", Name: "Emma Davis", Role: RoleEmployee, OrganizationID: "org1", TeamID: "team1", PasswordHash: hash},
	}
	return NewAccountStore(accounts), nil
}

func (s *AccountStore) FindByEmail(email string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Account{}, false
	}
	return *account, true
}

func (s *AccountStore) All() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, *account)
	}
	return out
}

func (s *AccountStore) SetMFASecret(userID string, secretEnc []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.ID == userID {
			account.MFASecretEnc = secretEnc
			account.MFAEnabled = false
			return true
		}
	}
	return false
}

func (s *AccountStore) SetMFAEnabled(userID string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.ID == userID {
			account.MFAEnabled = enabled
			return true
		}
	}
	return false
}

func (s *AccountStore) MFASecret(userID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if account.ID == userID {
			return account.MFASecretEnc, true
		}
	}
	return nil, false
}
