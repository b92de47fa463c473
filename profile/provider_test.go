package profile

import (
	"testing"

	"github.com/snowretail/cortex-assistant/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Profiles: []config.AssistantProfile{
			{Name: "support", Departments: []string{"support"}, ResultLimit: 5},
			{Name: "sales", Model: "mistral-large"},
		},
		DefaultProfile: "sales",
	}
}

func TestSelectByName(t *testing.T) {
	p := NewProvider(testConfig())

	prof := p.SelectByName("support")
	require.Equal(t, "support", prof.Name)
	assert.Equal(t, 5, prof.ResultLimit)
	assert.Equal(t, []string{"support"}, prof.Departments)

	// case-insensitive
	assert.Equal(t, "support", p.SelectByName("SUPPORT").Name)
	// unknown name yields the zero profile
	assert.Empty(t, p.SelectByName("unknown").Name)
	assert.Empty(t, p.SelectByName("").Name)
}

func TestSelectDefault(t *testing.T) {
	p := NewProvider(testConfig())
	prof := p.SelectDefault()
	require.Equal(t, "sales", prof.Name)
	// normalization fills the result limit
	assert.Equal(t, 3, prof.ResultLimit)
}

func TestSelectDefault_NoProfiles(t *testing.T) {
	p := NewProvider(&config.Config{})
	prof := p.SelectDefault()
	assert.Equal(t, "general", prof.Name)
	assert.Equal(t, 3, prof.ResultLimit)
}

func TestSelectDefault_NilConfig(t *testing.T) {
	p := NewProvider(nil)
	assert.Equal(t, "general", p.SelectDefault().Name)
}

func TestNames(t *testing.T) {
	p := NewProvider(testConfig())
	assert.Equal(t, []string{"support", "sales"}, p.Names())
}
