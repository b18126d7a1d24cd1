// Package feishu wraps the Lark Open API calls the bot needs: posting the
// daily announcement, reading recent channel messages for the monitor, and
// deleting messages in diagnostic flows.
package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"
)

// Message is a message read back from a chat. CreateTime is the Lark
// millisecond timestamp string and serves as the monitor's ordering key.
type Message struct {
	MsgID      string
	MsgType    string
	Content    string
	CreateTime string
	SenderID   string
	SenderType string // "user" or "app"
	SenderName string
}

// Client is the Feishu API client for one chat.
type Client struct {
	appID     string
	appSecret string
	chatID    string
	larkCli   *lark.Client
	logger    *zap.Logger

	botName     string            // cached after the first lookup
	memberNames map[string]string // open_id -> display name, filled lazily
}

// NewClient creates a new Feishu client bound to a single chat.
func NewClient(appID, appSecret, chatID string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		appID:     appID,
		appSecret: appSecret,
		chatID:    chatID,
		larkCli:   lark.NewClient(appID, appSecret),
		logger:    logger,
	}
}

// SendText sends a text message to the chat and returns the message ID.
func (c *Client) SendText(ctx context.Context, text string) (string, error) {
	content := map[string]string{"text": text}
	contentJSON, _ := json.Marshal(content)

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(larkim.ReceiveIdTypeChatId).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(c.chatID).
			MsgType(larkim.MsgTypeText).
			Content(string(contentJSON)).
			Build()).
		Build()

	resp, err := c.larkCli.Im.Message.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("send message failed: %w", err)
	}
	if !resp.Success() {
		return "", fmt.Errorf("send message error: %s", resp.Msg)
	}

	msgID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		msgID = *resp.Data.MessageId
	}
	c.logger.Info("message sent", zap.String("chat_id", c.chatID), zap.String("msg_id", msgID))
	return msgID, nil
}

// DeleteMessage withdraws a previously sent message. Used by diagnostic
// flows only.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	req := larkim.NewDeleteMessageReqBuilder().
		MessageId(messageID).
		Build()

	resp, err := c.larkCli.Im.Message.Delete(ctx, req)
	if err != nil {
		return fmt.Errorf("delete message failed: %w", err)
	}
	if !resp.Success() {
		return fmt.Errorf("delete message error: %s", resp.Msg)
	}

	c.logger.Info("message deleted", zap.String("msg_id", messageID))
	return nil
}

// ListRecent retrieves the most recent text messages from the chat in
// chronological order (oldest first). The Lark API defaults to ascending
// from the chat's creation, so the client fetches descending and reverses.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]*Message, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	req := larkim.NewListMessageReqBuilder().
		ContainerIdType("chat").
		ContainerId(c.chatID).
		SortType("ByCreateTimeDesc").
		PageSize(limit).
		Build()

	resp, err := c.larkCli.Im.Message.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	if !resp.Success() {
		return nil, fmt.Errorf("list messages error: %s", resp.Msg)
	}

	var messages []*Message
	for _, item := range resp.Data.Items {
		msg := &Message{}
		if item.MessageId != nil {
			msg.MsgID = *item.MessageId
		}
		if item.MsgType != nil {
			msg.MsgType = *item.MsgType
		}
		if item.CreateTime != nil {
			msg.CreateTime = *item.CreateTime
		}

		if item.Body != nil && item.Body.Content != nil {
			msg.Content = parseTextContent(*item.Body.Content, msg.MsgType)
		}

		if item.Sender != nil {
			if item.Sender.Id != nil {
				msg.SenderID = *item.Sender.Id
			}
			if item.Sender.SenderType != nil {
				msg.SenderType = *item.Sender.SenderType
			}
		}
		msg.SenderName = c.resolveSenderName(ctx, msg.SenderID, msg.SenderType)

		messages = append(messages, msg)
	}

	// Reverse to chronological order (oldest first, newest last).
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	c.logger.Debug("retrieved messages", zap.Int("count", len(messages)), zap.String("chat_id", c.chatID))
	return messages, nil
}

// resolveSenderName maps a sender to a display name. App senders resolve
// through the bot info endpoint; users resolve through the chat member
// list, cached per client.
func (c *Client) resolveSenderName(ctx context.Context, senderID, senderType string) string {
	if senderType == "app" || senderType == "bot" {
		name, err := c.BotName(ctx)
		if err != nil {
			c.logger.Warn("failed to resolve bot name", zap.Error(err))
			return ""
		}
		return name
	}

	if c.memberNames == nil {
		c.memberNames = make(map[string]string)
		members, err := c.chatMembers(ctx)
		if err != nil {
			c.logger.Warn("failed to list chat members", zap.Error(err))
		}
		for id, name := range members {
			c.memberNames[id] = name
		}
	}
	return c.memberNames[senderID]
}

// chatMembers fetches the chat member list, paging through all members.
func (c *Client) chatMembers(ctx context.Context) (map[string]string, error) {
	members := make(map[string]string)
	var pageToken string

	for {
		reqBuilder := larkim.NewGetChatMembersReqBuilder().
			MemberIdType("open_id").
			ChatId(c.chatID).
			PageSize(100)
		if pageToken != "" {
			reqBuilder = reqBuilder.PageToken(pageToken)
		}

		resp, err := c.larkCli.Im.ChatMembers.Get(ctx, reqBuilder.Build())
		if err != nil {
			return nil, fmt.Errorf("get chat members failed: %w", err)
		}
		if !resp.Success() {
			return nil, fmt.Errorf("get chat members error: %s", resp.Msg)
		}

		for _, item := range resp.Data.Items {
			if item.MemberId != nil && item.Name != nil {
				members[*item.MemberId] = *item.Name
			}
		}

		if resp.Data.PageToken == nil || *resp.Data.PageToken == "" {
			break
		}
		pageToken = *resp.Data.PageToken
	}

	return members, nil
}

// BotName returns the bot's display name as registered on the platform.
// The name is cached for the client's lifetime.
func (c *Client) BotName(ctx context.Context) (string, error) {
	if c.botName != "" {
		return c.botName, nil
	}

	// The bot info endpoint has no SDK wrapper; call it directly.
	tokenReq := fmt.Sprintf(`{"app_id":%q,"app_secret":%q}`, c.appID, c.appSecret)
	tokenResp, err := http.Post(
		"https://open.feishu.cn/open-apis/auth/v3/tenant_access_token/internal",
		"application/json",
		strings.NewReader(tokenReq),
	)
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	defer tokenResp.Body.Close()

	var tokenResult struct {
		Code              int    `json:"code"`
		TenantAccessToken string `json:"tenant_access_token"`
	}
	if err := json.NewDecoder(tokenResp.Body).Decode(&tokenResult); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://open.feishu.cn/open-apis/bot/v3/info", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+tokenResult.TenantAccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get bot info: %w", err)
	}
	defer resp.Body.Close()

	var botResult struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Bot  struct {
			AppName string `json:"app_name"`
		} `json:"bot"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&botResult); err != nil {
		return "", fmt.Errorf("decode bot info: %w", err)
	}
	if botResult.Code != 0 {
		return "", fmt.Errorf("bot info error: %s", botResult.Msg)
	}

	c.botName = botResult.Bot.AppName
	return c.botName, nil
}

// parseTextContent extracts the plain text from a message content payload.
func parseTextContent(content, msgType string) string {
	if msgType != "text" {
		return content
	}
	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return content
	}
	return parsed.Text
}
