package validation

import "strings"

type Category string

const (
	Internet  Category = "internet"
	Utilities Category = "utilities"
	Education Category = "education"
	Charity   Category = "charity"
)

func (c Category) Valid() bool {
	switch c {
	case Internet, Utilities, Education, Charity:
		return true
	}
	return false
}

// Provider describes a vendor and the shape of its customer account numbers.
// Length includes the prefix.
type Provider struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Prefix   string   `json:"prefix"`
	Length   int      `json:"accountLength"`
}

var providers = []Provider{
	{Name: "RostelCom+", Category: Internet, Prefix: "RC", Length: 15},
	{Name: "TV360", Category: Internet, Prefix: "TV", Length: 12},
	{Name: "FiberNet", Category: Internet, Prefix: "FN", Length: 14},
	{Name: "ZhKH-Service", Category: Utilities, Prefix: "UO", Length: 20},
	{Name: "UO-Gorod", Category: Utilities, Prefix: "UO", Length: 18},
	{Name: "DomComfort", Category: Utilities, Prefix: "DC", Length: 22},
	{Name: "GasEnergy", Category: Utilities, Prefix: "GE", Length: 22},
	{Name: "CityWater", Category: Utilities, Prefix: "CW", Length: 18},
	{Name: "UniEdu", Category: Education, Prefix: "EDU", Length: 16},
	{Name: "EduCenter+", Category: Education, Prefix: "EDC", Length: 16},
	{Name: "GoodHands", Category: Charity, Prefix: "GH", Length: 10},
	{Name: "KindKids", Category: Charity, Prefix: "KK", Length: 12},
}

var mobileOperators = []string{"Babline", "MTSha", "MegaFun", "TelePanda", "YotaLike"}

func Providers() []Provider {
	out := make([]Provider, len(providers))
	copy(out, providers)
	return out
}

func ProvidersIn(category Category) []Provider {
	var out []Provider
	for _, p := range providers {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func ProviderByName(name string) (Provider, bool) {
	for _, p := range providers {
		if p.Name == name {
			return p, true
		}
	}
	return Provider{}, false
}

func MobileOperators() []string {
	out := make([]string, len(mobileOperators))
	copy(out, mobileOperators)
	return out
}

func IsMobileOperator(name string) bool {
	for _, op := range mobileOperators {
		if op == name {
			return true
		}
	}
	return false
}

// SanitizeVendorNumber keeps ASCII letters and digits, upper-cases them and
// clips to the provider length when one is known.
func SanitizeVendorNumber(raw string, p *Provider) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		}
	}
	s := b.String()
	if p != nil && p.Length > 0 && len(s) > p.Length {
		s = s[:p.Length]
	}
	return s
}
