package commbank

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"netbank/lib/restyutil"
	"netbank/lib/telemetry"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/publicsuffix"
)

var tracer = otel.Tracer("lib/commbank")

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultTimeout   = time.Second * 30

	// the nbid cookie only exists while logged in
	sessionCookie = "nbid"

	clientNumberField = "txtMyClientNumber$field"
	passwordField     = "txtMyPassword$field"

	accountsPathSegment     = "/retail/netbank/accounts/"
	transactionsPathSegment = "/retail/netbank/accounts/api/transactions"
)

// Endpoints are the fixed locations of the bank's web surface.
type Endpoints struct {
	// Login is the logon page, its path also identifies a rejected login.
	Login string
	// Accounts returns {"accounts": [...]}.
	Accounts string
	// TransactionsHost is prefixed to the link of an account.
	TransactionsHost string
}

var DefaultEndpoints = Endpoints{
	Login:            "https://www.my.commbank.com.au/netbank/Logon/Logon.aspx",
	Accounts:         "https://www.commbank.com.au/retail/netbank/api/home/v1/accounts",
	TransactionsHost: "https://www.commbank.com.au",
}

type ClientOptions struct {
	// defaults to DefaultTimeout
	Timeout time.Duration
	// defaults to DefaultUserAgent
	UserAgent string
	// defaults to DefaultEndpoints
	Endpoints Endpoints
	// when set, every http exchange is written to it
	DumpOutput restyutil.InstrumentOutput
}

type accountCache struct {
	loaded   bool
	accounts []*Account
}

// Client owns one NetBank session. It is not safe for concurrent use.
type Client struct {
	Http      *resty.Client
	endpoints Endpoints
	loginUrl  *url.URL
	jar       http.CookieJar
	cache     accountCache
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Endpoints == (Endpoints{}) {
		opts.Endpoints = DefaultEndpoints
	}

	loginUrl, err := url.Parse(opts.Endpoints.Login)
	if err != nil {
		return nil, fmt.Errorf("parse login url: %w", err)
	}
	sites := map[string]bool{}
	for _, endpoint := range []string{
		opts.Endpoints.Login,
		opts.Endpoints.Accounts,
		opts.Endpoints.TransactionsHost,
	} {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		sites[siteOf(parsed.Hostname())] = true
	}

	// cookies set on the registrable domain must be shared between
	// www.my.commbank.com.au and www.commbank.com.au
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(redirectPolicy(sites))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "lib/commbank/http")
	restyutil.InstrumentClient(client, opts.DumpOutput, clientNumberField, passwordField)

	return &Client{
		Http:      client,
		endpoints: opts.Endpoints,
		loginUrl:  loginUrl,
		jar:       jar,
	}, nil
}

const maxRedirects = 10

// siteOf returns the registrable domain of a hostname, the login flow hops
// between several hosts of it. IP addresses are their own site.
func siteOf(hostname string) string {
	if net.ParseIP(hostname) != nil {
		return hostname
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		return hostname
	}
	return site
}

// redirectPolicy follows redirects as long as they stay within `sites`.
func redirectPolicy(sites map[string]bool) resty.RedirectPolicy {
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", len(via))
		}
		if !sites[siteOf(req.URL.Hostname())] {
			return fmt.Errorf("redirect to %s leaves the bank's sites", req.URL.Host)
		}
		return nil
	})
}

// resolveAction makes a form action absolute relative to the page it was found on.
func resolveAction(page *url.URL, action string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(action))
	if err != nil {
		return nil, fmt.Errorf("invalid form action %q: %w", action, err)
	}
	if page == nil {
		return parsed, nil
	}
	return page.ResolveReference(parsed), nil
}

func finalUrl(res *resty.Response) *url.URL {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL
	}
	parsed, err := url.Parse(res.Request.URL)
	if err != nil {
		return nil
	}
	return parsed
}

// HasSession reports whether the session cookie is present for any of the
// bank's endpoints.
func (c *Client) HasSession() bool {
	for _, endpoint := range []string{
		c.endpoints.Login,
		c.endpoints.Accounts,
		c.endpoints.TransactionsHost,
	} {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			continue
		}
		for _, cookie := range c.jar.Cookies(parsed) {
			if cookie.Name == sessionCookie && cookie.Value != "" {
				return true
			}
		}
	}
	return false
}

// Login authenticates the session with a client number and password. It
// either leaves the session usable or returns an error wrapping ErrLoginFailed.
func (c *Client) Login(ctx context.Context, clientNumber, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	fail := func(status string, err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		slog.ErrorContext(ctx, "login failed", "stage", status, "err", err)
		return loginFailed(err)
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.endpoints.Login)
	if err != nil {
		return fail("failed to fetch login page", err)
	}
	form, err := ParseForm(res.Body())
	if err != nil {
		return fail("failed to parse login page", err)
	}

	data := form.Data
	data[clientNumberField] = clientNumber
	data[passwordField] = password
	data["btnLogon$field"] = "Log on"
	data["chkRemember$field"] = "on"
	data["JS"] = "E"

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(data).
		Post(c.endpoints.Login)
	if err != nil {
		return fail("failed to submit credentials", err)
	}
	form, err = ParseForm(res.Body())
	if err != nil {
		return fail("failed to parse credentials response", err)
	}
	action, err := resolveAction(finalUrl(res), form.Action)
	if err != nil {
		return fail("failed to resolve next step", err)
	}
	span.SetAttributes(attribute.String("login.next_action", action.Path))

	// being sent back to the logon page means the credentials were rejected
	if strings.HasPrefix(action.Path, c.loginUrl.Path) {
		return fail("credentials rejected", fmt.Errorf("credentials were likely invalid"))
	}

	// only one additional step is known to exist in the flow
	_, err = c.Http.R().
		SetContext(ctx).
		SetFormData(form.Data).
		Post(action.String())
	if err != nil {
		return fail("failed to submit additional step", err)
	}

	if !c.HasSession() {
		return fail("no session cookie", fmt.Errorf("credentials were likely invalid"))
	}

	slog.InfoContext(ctx, "login successful")
	return nil
}

// Accounts fetches the user's accounts and replaces the cached list with them.
func (c *Client) Accounts(ctx context.Context) ([]*Account, error) {
	ctx, span := tracer.Start(ctx, "client:Accounts")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.endpoints.Accounts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch accounts")
		return nil, err
	}

	var body struct {
		Accounts *[]json.RawMessage `json:"accounts"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		err = badResponse("decode accounts: %w", err)
	} else if body.Accounts == nil {
		err = badResponse("response has no accounts")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse accounts")
		slog.ErrorContext(ctx, "failed to parse accounts", "err", err)
		return nil, err
	}

	accounts := make([]*Account, 0, len(*body.Accounts))
	for _, raw := range *body.Accounts {
		account, err := newAccount(c, raw)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse account")
			slog.ErrorContext(ctx, "failed to parse account", "err", err)
			return nil, err
		}
		accounts = append(accounts, account)
	}

	c.cache = accountCache{loaded: true, accounts: accounts}
	span.SetAttributes(attribute.Int("accounts.count", len(accounts)))
	return accounts, nil
}

// Account returns the account with the given number (without the bsb),
// fetching the account list only if it has never been loaded. It returns
// nil when no account matches.
func (c *Client) Account(ctx context.Context, number string) (*Account, error) {
	if !c.cache.loaded {
		_, err := c.Accounts(ctx)
		if err != nil {
			return nil, err
		}
	}
	for _, account := range c.cache.accounts {
		if account.Number == number {
			return account, nil
		}
	}
	return nil, nil
}

// TransactionsUrl derives the transactions endpoint of an account from its link.
func (c *Client) TransactionsUrl(account *Account) string {
	return c.endpoints.TransactionsHost + strings.Replace(
		account.Link,
		accountsPathSegment,
		transactionsPathSegment,
		1,
	)
}

// Transactions fetches the recent transactions of an account.
func (c *Client) Transactions(ctx context.Context, account *Account) ([]Transaction, error) {
	ctx, span := tracer.Start(ctx, "client:Transactions")
	defer span.End()

	endpoint := c.TransactionsUrl(account)
	span.SetAttributes(attribute.String("transactions.url", endpoint))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch transactions")
		return nil, err
	}

	transactions, err := ParseApiTransactions(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse transactions")
		slog.ErrorContext(ctx, "failed to parse transactions", "url", endpoint, "err", err)
		return nil, err
	}
	return transactions, nil
}

// LegacyTransactions fetches a transaction history page in the older embedded
// JSON format and parses it.
func (c *Client) LegacyTransactions(ctx context.Context, pageUrl string) ([]Transaction, error) {
	ctx, span := tracer.Start(ctx, "client:LegacyTransactions")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch transaction history")
		return nil, err
	}

	transactions, err := ParseTransactions(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse transaction history")
		slog.ErrorContext(ctx, "failed to parse transaction history", "url", pageUrl, "err", err)
		return nil, err
	}
	return transactions, nil
}
