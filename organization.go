package gptifier

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dsw7/gptifier/internal/serialization"
)

// GetCosts returns the organization's daily costs since start. A limit of
// zero uses the server default of seven buckets.
//
// Requires an admin key.
//
// https://platform.openai.com/docs/api-reference/usage/costs
func (c *Client) GetCosts(ctx context.Context, start time.Time, limit int) (Costs, error) {
	query := url.Values{"start_time": {strconv.FormatInt(start.Unix(), 10)}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	ex, err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/organization/costs",
		query:      query,
		credential: adminKey,
	})
	if err != nil {
		return Costs{}, err
	}
	if err := ex.check(serialization.BackendOpenAI); err != nil {
		return Costs{}, err
	}
	return serialization.DecodeCosts(ex.Body)
}

// ListUsers lists the members of the organization.
//
// Requires an admin key.
//
// https://platform.openai.com/docs/api-reference/users/list
func (c *Client) ListUsers(ctx context.Context, limit int) (serialization.List[User], error) {
	ex, err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/organization/users",
		query:      limitQuery(limit),
		credential: adminKey,
	})
	if err != nil {
		return serialization.List[User]{}, err
	}
	return decodeList(ex, serialization.ObjectOrganizationUser, serialization.UnpackUser)
}
