package auth

import "context"

// StudentProvider serves credentials from the students table. Records with
// a blank role default to User.
type StudentProvider struct {
	store *IdentityStore
}

// NewStudentProvider creates the student identity source.
func NewStudentProvider(store *IdentityStore) *StudentProvider {
	return &StudentProvider{store: store}
}

// Name implements CredentialProvider.
func (p *StudentProvider) Name() string { return "students" }

// Lookup implements CredentialProvider.
func (p *StudentProvider) Lookup(ctx context.Context, username string) (*Credential, error) {
	return p.store.StudentByUsername(ctx, username)
}

// StaffProvider serves credentials from the teachers table. Records with a
// blank role default to Admin.
type StaffProvider struct {
	store *IdentityStore
}

// NewStaffProvider creates the staff identity source.
func NewStaffProvider(store *IdentityStore) *StaffProvider {
	return &StaffProvider{store: store}
}

// Name implements CredentialProvider.
func (p *StaffProvider) Name() string { return "staff" }

// Lookup implements CredentialProvider.
func (p *StaffProvider) Lookup(ctx context.Context, username string) (*Credential, error) {
	return p.store.StaffByUsername(ctx, username)
}
