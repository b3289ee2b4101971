package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cwTokenSource = `use cosmwasm_std::{DepsMut, Env, MessageInfo, Response, StdResult};

// cw20 compatible token
pub struct Config {
    pub owner: String,
}

#[entry_point]
pub fn instantiate(deps: DepsMut, env: Env, info: MessageInfo, msg: InstantiateMsg) -> StdResult<Response> {
    Ok(Response::default())
}

#[entry_point]
pub fn execute(deps: DepsMut, env: Env, info: MessageInfo, msg: ExecuteMsg) -> StdResult<Response> {
    Ok(Response::default())
}

pub enum ExecuteMsg {
    Transfer { recipient: String, amount: u128 },
}

pub enum QueryMsg {
    Balance { address: String },
}`

func TestCosmWasmIdentify(t *testing.T) {
	a := NewCosmWasmAnalyzer()

	assert.True(t, a.Identify(cwTokenSource))
	assert.True(t, a.Identify("let msg = CosmosMsg::Bank(send);"))
	assert.False(t, a.Identify("module examples::token { }"))
}

func TestCosmWasmExtract(t *testing.T) {
	a := NewCosmWasmAnalyzer()
	fact := a.Extract(cwTokenSource)

	assert.Equal(t, "cosmwasm", fact.Language)

	assert.True(t, fact.EntryPoints["instantiate"])
	assert.True(t, fact.EntryPoints["execute"])
	assert.False(t, fact.EntryPoints["query"])
	assert.False(t, fact.EntryPoints["migrate"])

	require.NotNil(t, fact.MessageTypes)
	assert.Equal(t, []string{"ExecuteMsg"}, fact.MessageTypes["execute_msgs"])
	assert.Equal(t, []string{"QueryMsg"}, fact.MessageTypes["query_msgs"])
	assert.Equal(t, []string{"CW20 (Token)"}, fact.MessageTypes["cw_standards"])

	assert.Contains(t, fact.StateItems, "Config")
	assert.False(t, fact.IBCIntegration)
}

func TestCosmWasmFindSafetyIssues(t *testing.T) {
	a := NewCosmWasmAnalyzer()

	tests := []struct {
		name     string
		source   string
		category string
		severity string
	}{
		{
			name:     "missing instantiate",
			source:   "#[entry_point]\npub fn execute(deps: DepsMut) -> StdResult<Response> {}",
			category: "entry_points",
			severity: "medium",
		},
		{
			name:     "msg enums without handlers",
			source:   "pub enum ExecuteMsg {\n    Transfer {},\n}",
			category: "entry_points",
			severity: "low",
		},
		{
			name:     "unguarded migrate",
			source:   "#[entry_point]\npub fn instantiate(deps: DepsMut) {}\npub fn migrate(deps: DepsMut) -> StdResult<Response> {}",
			category: "access_control",
			severity: "low",
		},
		{
			name:     "ibc without timeout",
			source:   "use cosmwasm_std::IbcMsg;\npub fn send_packet() {}",
			category: "ibc",
			severity: "low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := a.FindSafetyIssues(tt.source)
			require.Len(t, findings, 1)
			assert.Equal(t, tt.category, findings[0].Category)
			assert.Equal(t, tt.severity, findings[0].Severity)
		})
	}

	t.Run("clean source", func(t *testing.T) {
		assert.Empty(t, a.FindSafetyIssues(cwTokenSource))
	})
}
