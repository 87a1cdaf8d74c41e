//go:build !zabbix_notrigger

package zabbix

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"
)

// TriggerPriority is a trigger severity, from not classified to disaster.
type TriggerPriority int

const (
	PriorityNotClassified TriggerPriority = iota
	PriorityInformation
	PriorityWarning
	PriorityAverage
	PriorityHigh
	PriorityDisaster
)

func (p TriggerPriority) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(p)))
}

func (p *TriggerPriority) UnmarshalJSON(data []byte) error {
	v, err := enumCode(data, reflect.TypeFor[TriggerPriority](), int(PriorityNotClassified), int(PriorityDisaster))
	if err != nil {
		return err
	}
	*p = TriggerPriority(v)
	return nil
}

// TriggerFunction is one function used in a trigger expression.
type TriggerFunction struct {
	FunctionID string `json:"functionid" zabbix:"required"`
	ItemID     string `json:"itemid"`
	Function   string `json:"function"`
	Parameter  string `json:"parameter"`
}

// Trigger is a trigger record returned by trigger.get.
type Trigger struct {
	TriggerID          string            `json:"triggerid" zabbix:"required"`
	Description        string            `json:"description"`
	Expression         string            `json:"expression"`
	EventName          string            `json:"event_name,omitempty"`
	URL                string            `json:"url,omitempty"`
	Comments           string            `json:"comments,omitempty"`
	Priority           TriggerPriority   `json:"priority"`
	Status             string            `json:"status,omitempty"`
	Value              string            `json:"value,omitempty"`
	RecoveryMode       string            `json:"recovery_mode,omitempty"`
	RecoveryExpression string            `json:"recovery_expression,omitempty"`
	Functions          []TriggerFunction `json:"functions,omitempty"`
	Tags               []Tag             `json:"tags,omitempty"`
}

// TriggerGetParams are the parameters of trigger.get.
type TriggerGetParams struct {
	GetParams
	TriggerIDs        []string `json:"triggerids,omitempty"`
	HostIDs           []string `json:"hostids,omitempty"`
	GroupIDs          []string `json:"groupids,omitempty"`
	ItemIDs           []string `json:"itemids,omitempty"`
	MinSeverity       *int     `json:"min_severity,omitempty"`
	ExpandDescription bool     `json:"expandDescription,omitempty"`
	ExpandExpression  bool     `json:"expandExpression,omitempty"`
	OnlyTrue          bool     `json:"only_true,omitempty"`
	SelectFunctions   Output   `json:"selectFunctions,omitempty"`
	SelectTags        Output   `json:"selectTags,omitempty"`
}

// CreateTriggerRequest are the parameters of trigger.create.
type CreateTriggerRequest struct {
	Description        string          `json:"description"`
	Expression         string          `json:"expression"`
	EventName          string          `json:"event_name,omitempty"`
	Priority           TriggerPriority `json:"priority,omitempty"`
	URL                string          `json:"url,omitempty"`
	Comments           string          `json:"comments,omitempty"`
	RecoveryMode       *int            `json:"recovery_mode,omitempty"`
	RecoveryExpression string          `json:"recovery_expression,omitempty"`
	ManualClose        *int            `json:"manual_close,omitempty"`
	Tags               []Tag           `json:"tags,omitempty"`
}

// GetTriggers calls trigger.get.
func (c *Client) GetTriggers(ctx context.Context, params TriggerGetParams) ([]Trigger, error) {
	return getRecords[Trigger](ctx, c, "trigger.get", params)
}

// CreateTrigger calls trigger.create and returns the new trigger ids.
func (c *Client) CreateTrigger(ctx context.Context, req CreateTriggerRequest) ([]string, error) {
	return c.create(ctx, "trigger.create", "triggerids", req)
}
