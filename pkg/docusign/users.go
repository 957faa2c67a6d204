package docusign

import (
	"context"
	"fmt"
	"net/url"
)

type userRef struct {
	UserID   string `mapstructure:"userId"`
	UserName string `mapstructure:"userName"`
}

type groupRef struct {
	GroupID   string `mapstructure:"groupId"`
	GroupName string `mapstructure:"groupName"`
}

// ListUsers maps user id to user name for the account. With activeOnly set
// only users in the Active state are returned.
func (c *Client) ListUsers(ctx context.Context, activeOnly bool) (map[string]string, error) {
	const op = "ListUsers"

	var params map[string]string
	if activeOnly {
		params = map[string]string{"status": "Active"}
	}

	obj, err := c.getObject(ctx, op, "users", params)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	items, err := collection(op, obj, "users")
	if err != nil {
		return nil, err
	}

	users := make(map[string]string, len(items))
	for _, item := range items {
		var u userRef
		if err := decodeItem(op, item, &u, "userId", "userName"); err != nil {
			return nil, err
		}
		users[u.UserID] = u.UserName
	}
	return users, nil
}

// ListUserGroups maps group id to group name for the groups a user belongs
// to.
func (c *Client) ListUserGroups(ctx context.Context, userID string) (map[string]string, error) {
	const op = "ListUserGroups"

	obj, err := c.getObject(ctx, op, "users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	items, err := collection(op, obj, "groupList")
	if err != nil {
		return nil, err
	}

	groups := make(map[string]string, len(items))
	for _, item := range items {
		var g groupRef
		if err := decodeItem(op, item, &g, "groupId", "groupName"); err != nil {
			return nil, err
		}
		groups[g.GroupID] = g.GroupName
	}
	return groups, nil
}
