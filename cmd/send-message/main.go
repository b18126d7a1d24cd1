package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sora-labs/calendar-voice-bot/feishu"
)

// send-message is a setup check: it posts a test message to the chat,
// reads it back, and deletes it.
func main() {
	_ = godotenv.Load()

	appID := os.Getenv("FEISHU_APP_ID")
	appSecret := os.Getenv("FEISHU_APP_SECRET")
	chatID := os.Getenv("FEISHU_CHAT_ID")

	if appID == "" || appSecret == "" || chatID == "" {
		fmt.Println("Error: FEISHU_APP_ID, FEISHU_APP_SECRET and FEISHU_CHAT_ID must be set")
		os.Exit(1)
	}

	text := "🔧 接続テスト: このメッセージは自動的に削除されます"
	if len(os.Args) > 1 {
		text = os.Args[1]
	}

	ctx := context.Background()
	client := feishu.NewClient(appID, appSecret, chatID, nil)

	msgID, err := client.SendText(ctx, text)
	if err != nil {
		fmt.Printf("Error: send failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Message sent: %s\n", msgID)

	messages, err := client.ListRecent(ctx, 5)
	if err != nil {
		fmt.Printf("Error: list failed: %v\n", err)
		os.Exit(1)
	}
	found := false
	for _, m := range messages {
		if m.MsgID == msgID {
			found = true
			break
		}
	}
	if !found {
		fmt.Println("Warning: sent message not found in recent history")
	} else {
		fmt.Println("Message visible in chat history")
	}

	if err := client.DeleteMessage(ctx, msgID); err != nil {
		fmt.Printf("Error: delete failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Message deleted. Setup looks good!")
}
