// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persist saves and loads the company forest: companies with their
// units, employees, sent emails and products. Back-references are not
// written; Load rebuilds them in a second pass over the decoded forest.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/orgsynth/internal/entity"
)

// Format is an on-disk encoding of the forest.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatFor returns the explicit format if one is given, otherwise the
// format implied by the file extension. Unknown extensions default to JSON.
func FormatFor(path, explicit string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "":
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown format %q: use json, yaml or sqlite", explicit)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return FormatJSON, nil
	}
}

// Save writes companies to path, replacing any existing file. The new
// file is built next to the old one and renamed over it, so a failed save
// leaves the previous archive intact.
func Save(ctx context.Context, path string, format Format, companies []*entity.Company) error {
	if companies == nil {
		companies = []*entity.Company{}
	}
	stampRecipients(companies)

	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(companies, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	case FormatYAML:
		data, err = yaml.Marshal(companies)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatSQLite:
		return replaceFile(path, func(tmp string) error {
			return saveSQLite(ctx, tmp, companies)
		})
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	return replaceFile(path, func(tmp string) error {
		return os.WriteFile(tmp, data, 0o644)
	})
}

// replaceFile calls write with a temporary path in path's directory and
// renames the result to path once write succeeds.
func replaceFile(path string, write func(tmp string) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// stampRecipients records where each linked recipient sits in the forest.
func stampRecipients(companies []*entity.Company) {
	keys := map[*entity.Employee]string{}
	for ci, c := range companies {
		for ui, u := range c.Units {
			for ei, e := range u.Employees {
				keys[e] = positionKey(ci, ui, ei)
			}
		}
	}
	for _, c := range companies {
		for _, e := range c.Employees() {
			for _, m := range e.SentMessages {
				m.RecipientKey = keys[m.To]
			}
		}
	}
}

func positionKey(company, unit, employee int) string {
	return fmt.Sprintf("%d.%d.%d", company+1, unit+1, employee+1)
}

// Load reads a forest from path and re-links every back-reference.
func Load(ctx context.Context, path string, format Format) ([]*entity.Company, error) {
	var companies []*entity.Company

	switch format {
	case FormatSQLite:
		var err error
		if companies, err = loadSQLite(ctx, path); err != nil {
			return nil, err
		}
	case FormatJSON, FormatYAML:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if format == FormatJSON {
			err = json.Unmarshal(data, &companies)
		} else {
			err = yaml.Unmarshal(data, &companies)
		}
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	Relink(companies)
	return companies, nil
}

// Relink sets Product.Company, Employee.Company, Employee.Unit, Email.From
// and Email.To throughout the forest. Email.To is the employee at the
// email's RecipientKey when that employee owns ToAccount. Otherwise it is
// the first employee, in forest order, with that address, and stays nil
// when nobody matches.
func Relink(companies []*entity.Company) {
	byAddress := map[string]*entity.Employee{}
	byKey := map[string]*entity.Employee{}

	for ci, c := range companies {
		for _, p := range c.Products {
			p.Company = c
		}
		for ui, u := range c.Units {
			for ei, e := range u.Employees {
				e.Company, e.Unit = c, u
				byKey[positionKey(ci, ui, ei)] = e
				if _, seen := byAddress[e.EmailAddress()]; !seen {
					byAddress[e.EmailAddress()] = e
				}
			}
		}
	}

	for _, c := range companies {
		for _, e := range c.Employees() {
			for _, m := range e.SentMessages {
				m.From = e
				if m.FromAccount == "" {
					m.FromAccount = e.EmailAddress()
				}
				account := strings.ToLower(strings.TrimSpace(m.ToAccount))
				if to, ok := byKey[m.RecipientKey]; ok && to.EmailAddress() == account {
					m.To = to
				} else {
					m.To = byAddress[account]
				}
			}
		}
	}
}

// Walk visits the forest in registration order: each company, then its
// products, then unit by unit each employee followed by the emails that
// employee sent. Units are addressed by name and are not visited.
func Walk(companies []*entity.Company, visit func(obj any)) {
	for _, c := range companies {
		visit(c)
		for _, p := range c.Products {
			visit(p)
		}
		for _, u := range c.Units {
			for _, e := range u.Employees {
				visit(e)
				for _, m := range e.SentMessages {
					visit(m)
				}
			}
		}
	}
}
