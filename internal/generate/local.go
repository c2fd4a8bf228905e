// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/pdiddy/orgsynth/internal/locale"
	"github.com/pdiddy/orgsynth/pkg/types"
)

var industries = []string{
	"Software", "Retail", "Banking", "Insurance", "Logistics", "Pharmaceuticals",
	"Automotive", "Telecommunications", "Energy", "Agriculture", "Construction",
	"Hospitality", "Media", "Aerospace", "Consumer Electronics", "Food and Beverage",
}

var businessFunctions = []string{
	"Finance", "Human Resources", "Sales", "Marketing", "Engineering", "Operations",
	"Legal", "Customer Support", "Procurement", "Research and Development",
	"IT", "Facilities", "Quality Assurance", "Logistics",
}

var subjectTemplates = []string{
	"Quick question about the %s",
	"Update on the %s",
	"Follow-up: %s review",
	"%s next steps",
	"Thoughts on the new %s",
}

var bodyTemplates = []string{
	"I wanted to check in about the %s before the end of the week.",
	"Could you take a look at the %s when you get a chance?",
	"We are still waiting on feedback for the %s.",
	"The team has made good progress on the %s.",
	"Let me know if the %s needs anything else from my side.",
	"I think we should revisit the %s at our next meeting.",
}

var attachmentExtensions = []string{"pdf", "docx", "xlsx", "pptx"}

// LocalBackend synthesizes records without any network access. Values are
// drawn from the embedded locale tables and gofakeit; a fixed seed gives a
// reproducible sequence.
type LocalBackend struct {
	faker   *gofakeit.Faker
	rng     *rand.Rand
	locales *locale.Table
}

// NewLocalBackend returns a local backend. A zero seed picks a random one.
func NewLocalBackend(seed uint64) *LocalBackend {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &LocalBackend{
		faker:   gofakeit.New(seed),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		locales: locale.Default(),
	}
}

// Structured implements Backend for the record shapes of pkg/types.
// req.Prompt is ignored; req.Location selects names and currency.
func (b *LocalBackend) Structured(_ context.Context, req Request, out any) error {
	switch v := out.(type) {
	case *types.CompanyRecord:
		*v = b.company(req.Location)
	case *types.PersonRecord:
		*v = b.person(req.Location)
	case *types.EmploymentRecord:
		*v = b.employment(req.Location)
	case *types.ProductRecord:
		*v = b.product(req.Location)
	default:
		return fmt.Errorf("local backend cannot synthesize %T", out)
	}
	if val, ok := out.(Validator); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("local backend produced an invalid record: %w", err)
		}
	}
	return nil
}

// Text implements Backend. It produces an email in the line format the
// entity graph parses: subject, optional attachment line, body.
func (b *LocalBackend) Text(_ context.Context, req Request) (string, error) {
	topic := strings.ToLower(b.faker.Noun())
	lines := []string{fmt.Sprintf(pick(b.rng, subjectTemplates), topic)}
	if req.Attachment {
		lines = append(lines, fmt.Sprintf("Attachment: %s-%s.%s",
			slug(topic), slug(b.faker.Noun()), pick(b.rng, attachmentExtensions)))
	}

	lines = append(lines, "Hi,", "")
	n := 2 + b.rng.IntN(3)
	for i := 0; i < n; i++ {
		subject := topic
		if i > 0 {
			subject = strings.ToLower(b.faker.Noun())
		}
		lines = append(lines, fmt.Sprintf(pick(b.rng, bodyTemplates), subject))
	}
	lines = append(lines, "", "Thanks")
	return strings.Join(lines, "\n"), nil
}

func (b *LocalBackend) country(location string) locale.Country {
	if c, ok := b.locales.Find(location); ok {
		return c
	}
	return locale.Country{Name: location, Currency: "USD", TLD: "com", Language: "en"}
}

func (b *LocalBackend) company(location string) types.CompanyRecord {
	home := b.country(location)
	name := b.faker.Company()

	locations := []string{home.Name}
	for _, c := range b.shuffledCountries(b.rng.IntN(4)) {
		if c.Name != home.Name {
			locations = append(locations, c.Name)
		}
	}

	units := append([]string(nil), businessFunctions...)
	b.rng.Shuffle(len(units), func(i, j int) { units[i], units[j] = units[j], units[i] })

	return types.CompanyRecord{
		Name:               name,
		EmployeesTotal:     b.faker.IntRange(20, 50000),
		Industry:           pick(b.rng, industries),
		OperatingLocations: locations,
		BusinessUnits:      units[:4+b.rng.IntN(5)],
		DomainName:         slug(name) + "." + home.TLD,
	}
}

func (b *LocalBackend) shuffledCountries(n int) []locale.Country {
	all := b.locales.Populous(locale.MinPopulation)
	b.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:min(n, len(all))]
}

func (b *LocalBackend) person(location string) types.PersonRecord {
	first, last := b.faker.FirstName(), b.faker.LastName()
	if names, ok := b.locales.NamesFor(b.country(location).Language); ok {
		first, last = pick(b.rng, names.First), pick(b.rng, names.Last)
	}
	return types.PersonRecord{
		FirstName:        first,
		LastName:         last,
		Age:              b.faker.IntRange(19, 62),
		Personality:      pick(b.rng, types.Personalities),
		NumberOfChildren: b.faker.IntRange(0, 3),
	}
}

func (b *LocalBackend) employment(location string) types.EmploymentRecord {
	return types.EmploymentRecord{
		Salary: fmt.Sprintf("%d %s", b.faker.IntRange(25, 180)*1000, b.country(location).Currency),
		Role:   b.faker.JobTitle(),
	}
}

func (b *LocalBackend) product(location string) types.ProductRecord {
	name := b.faker.ProductName()
	return types.ProductRecord{
		Name:        name,
		Description: fmt.Sprintf("A %s %s.", strings.ToLower(b.faker.Adjective()), strings.ToLower(b.faker.Noun())),
		Price:       fmt.Sprintf("%.2f %s", b.faker.Price(5, 500), b.country(location).Currency),
	}
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// slug lower-cases s and keeps only letters and digits.
func slug(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "company"
	}
	return sb.String()
}
