package devenv

// NetBankTestConfig holds real credentials for the tests that talk to the
// live bank. It lives in dev/.state/netbank_config.json5 and is never committed.
type NetBankTestConfig struct {
	ClientNumber string `json:"client_number"`
	Password     string `json:"password"`
	// AccountNumber is the account (without bsb) whose transactions are fetched.
	AccountNumber string `json:"account_number"`
}

const NetBankTestConfigTemplate = `{
  // credentials for the live netbank tests, leave empty to skip them
  client_number: "",
  password: "",
  account_number: "",
}
`
