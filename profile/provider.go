package profile

import (
	"strings"

	"github.com/snowretail/cortex-assistant/config"
)

// Provider manages assistant profile selection and normalization
type Provider interface {
	SelectByName(name string) config.AssistantProfile
	SelectDefault() config.AssistantProfile
	Normalize(prof config.AssistantProfile) config.AssistantProfile
	Names() []string
}

// defaultProvider is the default implementation
type defaultProvider struct {
	profiles    []config.AssistantProfile
	defaultName string
}

// NewProvider creates a new profile provider
func NewProvider(cfg *config.Config) Provider {
	if cfg == nil {
		return &defaultProvider{profiles: []config.AssistantProfile{}}
	}
	return &defaultProvider{
		profiles:    cfg.Profiles,
		defaultName: cfg.DefaultProfile,
	}
}

// SelectByName selects a profile by name, case-insensitively. A zero
// profile means no match.
func (p *defaultProvider) SelectByName(name string) config.AssistantProfile {
	name = strings.TrimSpace(name)
	if name == "" {
		return config.AssistantProfile{}
	}
	for _, prof := range p.profiles {
		if strings.EqualFold(prof.Name, name) {
			return p.Normalize(prof)
		}
	}
	return config.AssistantProfile{}
}

// SelectDefault returns the configured default profile, the first profile,
// or a general fallback when none are configured.
func (p *defaultProvider) SelectDefault() config.AssistantProfile {
	if p.defaultName != "" {
		if prof := p.SelectByName(p.defaultName); prof.Name != "" {
			return prof
		}
	}
	if len(p.profiles) > 0 {
		return p.Normalize(p.profiles[0])
	}
	return p.Normalize(config.AssistantProfile{Name: "general"})
}

// Normalize fills in default values for a profile
func (p *defaultProvider) Normalize(prof config.AssistantProfile) config.AssistantProfile {
	if prof.ResultLimit == 0 {
		prof.ResultLimit = 3
	}
	return prof
}

// Names lists the configured profile names in order.
func (p *defaultProvider) Names() []string {
	out := make([]string, 0, len(p.profiles))
	for _, prof := range p.profiles {
		out = append(out, prof.Name)
	}
	return out
}
