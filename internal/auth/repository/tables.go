// Package repository implements version stamp persistence for the credential lifecycle.
//
// PostgreSQL and MySQL implementations honor the ambient transaction via database.GetTx().
// The Redis implementation stores one key per principal and class and writes several
// classes in one MULTI/EXEC transaction. The in-memory implementation is meant for tests
// and single-process development setups.
package repository

import (
	"fmt"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// versionTable returns the table holding stamps of class.
func versionTable(class authDomain.CredentialClass) (string, error) {
	switch class {
	case authDomain.AccessClass:
		return "access_token_versions", nil
	case authDomain.RefreshClass:
		return "refresh_token_versions", nil
	default:
		return "", fmt.Errorf("unknown credential class: %s", class)
	}
}

// stampClasses validates the classes of versions and returns them access first, so
// multi-class writes always touch tables and keys in the same order.
func stampClasses(versions map[authDomain.CredentialClass]string) ([]authDomain.CredentialClass, error) {
	classes := make([]authDomain.CredentialClass, 0, len(versions))
	for class := range versions {
		if _, err := versionTable(class); err != nil {
			return nil, err
		}
	}
	for _, class := range []authDomain.CredentialClass{authDomain.AccessClass, authDomain.RefreshClass} {
		if _, ok := versions[class]; ok {
			classes = append(classes, class)
		}
	}
	return classes, nil
}
