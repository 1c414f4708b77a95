package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ActivityNotifier forwards resolve/view events to the outbound
// notification side. Failures never fail the mutation that triggered them.
type ActivityNotifier interface {
	ComplaintActivity(ctx context.Context, category, complaintID, activity string) error
}

// NotifierService posts activity events to the external notification
// service.
type NotifierService struct {
	BaseURL string
	client  *http.Client
}

func NewNotifierService(baseURL string) *NotifierService {
	return &NotifierService{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *NotifierService) ComplaintActivity(ctx context.Context, category, complaintID, activity string) error {
	payload, _ := json.Marshal(map[string]string{
		"category":    category,
		"complaintId": complaintID,
		"activity":    activity,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/activity", n.BaseURL), bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification service returned status: %d", resp.StatusCode)
	}
	return nil
}

// NopNotifier drops activity events. Used when no notification service is
// configured, and in tests.
type NopNotifier struct{}

func (NopNotifier) ComplaintActivity(context.Context, string, string, string) error { return nil }
