package walletservice

import (
	"context"
	"encoding/base64"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Action names accepted by ProcessAction.
const (
	ActionSend       = "send"
	ActionSendMany   = "send_many"
	ActionStatus     = "status"
	ActionHistory    = "history"
	ActionPending    = "pending"
	ActionWalletInfo = "wallet_info"
)

// ActionRequest is the uniform request envelope of the action entrypoint.
// Fields are interpreted per action: To and Amount for send, Recipients
// for send_many, Limit for history.
type ActionRequest struct {
	Action     string      `json:"action"`
	To         string      `json:"to,omitempty"`
	Amount     string      `json:"amount,omitempty"`
	Recipients []Recipient `json:"recipients,omitempty"`
	Limit      int         `json:"limit,omitempty"`
	Force      bool        `json:"force,omitempty"`
	WalletPath string      `json:"wallet_path,omitempty"`
}

// ActionResult is the uniform response envelope. Exactly one of Data and
// Error is meaningful, keyed by Success.
type ActionResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ProcessAction dispatches a request to the matching operation. It is the
// trust boundary of the service: failures of any kind, panics included,
// come back as a failed ActionResult and never propagate to the caller.
func (s *Service) ProcessAction(ctx context.Context, req ActionRequest) (result *ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered from panic in action %s: %v", req.Action, r)
			result = &ActionResult{
				Success: false,
				Error:   fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	switch req.Action {
	case ActionSend:
		res, err := s.SendOne(ctx, req.To, req.Amount)
		if err != nil {
			return failedAction(err)
		}
		if !res.Ok {
			return &ActionResult{Success: false, Data: res, Error: res.Error}
		}
		return &ActionResult{Success: true, Data: res}

	case ActionSendMany:
		res, err := s.SendMany(ctx, req.Recipients)
		if err != nil {
			return failedAction(err)
		}
		return &ActionResult{Success: res.Failed == 0, Data: res}

	case ActionStatus:
		status, err := s.GetStatus(ctx, req.Force)
		if err != nil {
			return failedAction(err)
		}
		return &ActionResult{Success: true, Data: status}

	case ActionHistory:
		entries, err := s.GetHistory(ctx, req.Limit, req.Force)
		if err != nil {
			return failedAction(err)
		}
		return &ActionResult{Success: true, Data: entries}

	case ActionPending:
		staged, err := s.GetPending(ctx)
		if err != nil {
			return failedAction(err)
		}
		return &ActionResult{Success: true, Data: staged}

	case ActionWalletInfo:
		return &ActionResult{Success: true, Data: map[string]interface{}{
			"address":     s.address,
			"public_key":  base64.StdEncoding.EncodeToString(s.pubkey),
			"wallet_path": req.WalletPath,
		}}

	default:
		return failedAction(fmt.Errorf("unknown action '%s'", req.Action))
	}
}

func failedAction(err error) *ActionResult {
	return &ActionResult{Success: false, Error: err.Error()}
}
