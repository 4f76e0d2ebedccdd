package services

import (
	"context"
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/trokolisz/DMSAudit/internal/config"
)

// DefaultRole is granted when the directory is unreachable or has no entry
// for the user.
const DefaultRole = "User"

// RoleLookup resolves the set of role names for a username.
type RoleLookup interface {
	Roles(ctx context.Context, username string) ([]string, error)
}

// NewRoleLookup picks the directory-backed lookup when one is configured,
// otherwise the static default.
func NewRoleLookup(cfg *config.Config) RoleLookup {
	if cfg.LDAPURL == "" {
		return StaticRoleLookup{RoleNames: []string{DefaultRole}}
	}
	return &LDAPRoleLookup{
		URL:          cfg.LDAPURL,
		BaseDN:       cfg.LDAPBaseDN,
		BindDN:       cfg.LDAPBindDN,
		BindPassword: cfg.LDAPBindPassword,
	}
}

// StaticRoleLookup returns a fixed role set for every user.
type StaticRoleLookup struct {
	RoleNames []string
}

func (s StaticRoleLookup) Roles(_ context.Context, _ string) ([]string, error) {
	return s.RoleNames, nil
}

// LDAPRoleLookup resolves roles from the user's directory group memberships.
type LDAPRoleLookup struct {
	URL          string
	BaseDN       string
	BindDN       string
	BindPassword string
}

func (l *LDAPRoleLookup) Roles(_ context.Context, username string) ([]string, error) {
	conn, err := ldap.DialURL(l.URL)
	if err != nil {
		return nil, fmt.Errorf("dial directory: %w", err)
	}
	defer conn.Close()

	if l.BindDN != "" {
		if err := conn.Bind(l.BindDN, l.BindPassword); err != nil {
			return nil, fmt.Errorf("bind: %w", err)
		}
	}

	req := ldap.NewSearchRequest(
		l.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		fmt.Sprintf("(sAMAccountName=%s)", ldap.EscapeFilter(username)),
		[]string{"memberOf"},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search directory: %w", err)
	}
	if len(res.Entries) == 0 {
		return nil, nil
	}

	var roles []string
	for _, groupDN := range res.Entries[0].GetAttributeValues("memberOf") {
		dn, err := ldap.ParseDN(groupDN)
		if err != nil || len(dn.RDNs) == 0 || len(dn.RDNs[0].Attributes) == 0 {
			continue
		}
		roles = append(roles, dn.RDNs[0].Attributes[0].Value)
	}
	return roles, nil
}
