// Package mcpserver exposes the schedule pipeline as MCP tools so agent
// frontends can post announcements and trigger speech on demand.
package mcpserver

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ScheduleProvider returns the rendered schedule for today (and tomorrow
// when it is included): the channel text and the speech script.
type ScheduleProvider func(ctx context.Context) (display, voiceScript string, err error)

// PostCallback posts text to the announcement channel.
type PostCallback func(ctx context.Context, text string) error

// SpeakCallback synthesizes text and plays it on the local audio device.
type SpeakCallback func(ctx context.Context, text string) error

// Callbacks holds the callback functions for MCP tools.
type Callbacks struct {
	GetSchedule ScheduleProvider
	Post        PostCallback
	Speak       SpeakCallback
}

// VoiceBotMCPServer provides MCP tools over the calendar voice pipeline.
type VoiceBotMCPServer struct {
	server *mcp.Server
}

var (
	globalCallbacks *Callbacks
	serverMu        sync.Mutex
)

// NewServer creates a new voice bot MCP server.
func NewServer(callbacks *Callbacks) *VoiceBotMCPServer {
	serverMu.Lock()
	defer serverMu.Unlock()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "calendar-voice-tools",
		Version: "v1.0.0",
	}, nil)

	s := &VoiceBotMCPServer{server: server}
	globalCallbacks = callbacks
	s.registerTools()
	return s
}

func (s *VoiceBotMCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_schedule",
		Description: "Get today's schedule (and tomorrow's when it is a business day) as formatted channel text plus a plain speech script.",
	}, handleGetSchedule)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "post_announcement",
		Description: "Post text to the schedule announcement channel.",
	}, handlePostAnnouncement)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "speak_text",
		Description: "Synthesize text with the configured voice and play it on the local audio device. Plain prose only, no markup.",
	}, handleSpeakText)
}

// GetScheduleInput is empty - no input needed
type GetScheduleInput struct{}

// GetScheduleOutput contains the rendered schedule
type GetScheduleOutput struct {
	Display     string `json:"display"`
	VoiceScript string `json:"voice_script"`
	Error       string `json:"error,omitempty"`
}

func handleGetSchedule(ctx context.Context, req *mcp.CallToolRequest, input GetScheduleInput) (*mcp.CallToolResult, GetScheduleOutput, error) {
	if globalCallbacks == nil || globalCallbacks.GetSchedule == nil {
		return nil, GetScheduleOutput{Error: "callback not configured"}, nil
	}

	display, script, err := globalCallbacks.GetSchedule(ctx)
	if err != nil {
		return nil, GetScheduleOutput{Error: err.Error()}, nil
	}

	return nil, GetScheduleOutput{Display: display, VoiceScript: script}, nil
}

// PostAnnouncementInput is the input for post_announcement
type PostAnnouncementInput struct {
	Text string `json:"text" jsonschema:"description=The text to post to the announcement channel"`
}

// PostAnnouncementOutput is the output for post_announcement
type PostAnnouncementOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func handlePostAnnouncement(ctx context.Context, req *mcp.CallToolRequest, input PostAnnouncementInput) (*mcp.CallToolResult, PostAnnouncementOutput, error) {
	if globalCallbacks == nil || globalCallbacks.Post == nil {
		return nil, PostAnnouncementOutput{Success: false, Error: "callback not configured"}, nil
	}

	if err := globalCallbacks.Post(ctx, input.Text); err != nil {
		return nil, PostAnnouncementOutput{Success: false, Error: err.Error()}, nil
	}

	return nil, PostAnnouncementOutput{Success: true}, nil
}

// SpeakTextInput is the input for speak_text
type SpeakTextInput struct {
	Text string `json:"text" jsonschema:"description=The text to speak. Plain prose without markup."`
}

// SpeakTextOutput is the output for speak_text
type SpeakTextOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func handleSpeakText(ctx context.Context, req *mcp.CallToolRequest, input SpeakTextInput) (*mcp.CallToolResult, SpeakTextOutput, error) {
	if globalCallbacks == nil || globalCallbacks.Speak == nil {
		return nil, SpeakTextOutput{Success: false, Error: "callback not configured"}, nil
	}

	if err := globalCallbacks.Speak(ctx, input.Text); err != nil {
		return nil, SpeakTextOutput{Success: false, Error: err.Error()}, nil
	}

	return nil, SpeakTextOutput{Success: true}, nil
}

// Run starts the MCP server with stdio transport.
func (s *VoiceBotMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
