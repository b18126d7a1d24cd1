package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sora-labs/calendar-voice-bot/internal/biz/domain"
)

const announcementText = "📅 *今日の予定 - 2021年06月16日 (Wednesday)*\n\n" +
	"*1. 朝会*\n🕐 09:00 〜 09:30\n\n" +
	"\n📊 合計 1 件の予定があります"

type fakeCursorStore struct {
	values map[string]string
	putErr error
}

func newFakeCursorStore() *fakeCursorStore {
	return &fakeCursorStore{values: make(map[string]string)}
}

func (f *fakeCursorStore) Get(channelID string) (string, error) {
	return f.values[channelID], nil
}

func (f *fakeCursorStore) Put(channelID, cursor string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.values[channelID] = cursor
	return nil
}

func TestMonitorPoll_SpeaksAnnouncementOnce(t *testing.T) {
	ch := &fakeChannel{messages: []domain.ChannelMessage{
		{Handle: "om_1", Text: "おはよう", SenderName: "Alice", TimestampKey: "1700000000100"},
		{Handle: "om_2", Text: announcementText, SenderName: "Calendar Bot", TimestampKey: "1700000000200"},
	}}
	sp := &fakeSpeech{}
	pl := &fakePlayer{}

	svc := NewMonitorService(testConfig(), ch, sp, pl, nil, nil)
	svc.Poll(context.Background())

	if len(pl.played) != 1 {
		t.Fatalf("played %d clips, want 1", len(pl.played))
	}
	if len(sp.inputs) != 1 {
		t.Fatalf("synthesized %d scripts, want 1", len(sp.inputs))
	}

	// Same batch again: the cursor must suppress a replay.
	svc.Poll(context.Background())
	if len(pl.played) != 1 {
		t.Errorf("played %d clips after second poll, want 1 (no replay)", len(pl.played))
	}
}

func TestMonitorPoll_IgnoresNonAnnouncements(t *testing.T) {
	ch := &fakeChannel{messages: []domain.ChannelMessage{
		{Handle: "om_1", Text: "lunch?", SenderName: "Alice", TimestampKey: "100"},
		{Handle: "om_2", Text: "sure", SenderName: "Bob", TimestampKey: "200"},
	}}
	sp := &fakeSpeech{}
	pl := &fakePlayer{}

	svc := NewMonitorService(testConfig(), ch, sp, pl, nil, nil)
	svc.Poll(context.Background())

	if len(sp.inputs) != 0 {
		t.Errorf("synthesized %d scripts, want 0", len(sp.inputs))
	}
	if svc.cursor != "" {
		t.Errorf("cursor = %q, want unchanged for non-announcements", svc.cursor)
	}
}

func TestMonitorPoll_OneAnnouncementPerPoll(t *testing.T) {
	ch := &fakeChannel{messages: []domain.ChannelMessage{
		{Handle: "om_1", Text: announcementText, SenderName: "Calendar Bot", TimestampKey: "100"},
		{Handle: "om_2", Text: announcementText, SenderName: "Calendar Bot", TimestampKey: "200"},
	}}
	sp := &fakeSpeech{}
	pl := &fakePlayer{}

	svc := NewMonitorService(testConfig(), ch, sp, pl, nil, nil)
	svc.Poll(context.Background())
	if len(pl.played) != 1 {
		t.Fatalf("played %d clips after first poll, want 1", len(pl.played))
	}
	if svc.cursor != "100" {
		t.Errorf("cursor = %q, want 100", svc.cursor)
	}

	svc.Poll(context.Background())
	if len(pl.played) != 2 {
		t.Fatalf("played %d clips after second poll, want 2", len(pl.played))
	}
	if svc.cursor != "200" {
		t.Errorf("cursor = %q, want 200", svc.cursor)
	}
}

func TestMonitorPoll_FailureRetriesWithoutAdvancing(t *testing.T) {
	ch := &fakeChannel{messages: []domain.ChannelMessage{
		{Handle: "om_1", Text: announcementText, SenderName: "Calendar Bot", TimestampKey: "100"},
	}}
	sp := &fakeSpeech{err: errors.New("backend down")}
	pl := &fakePlayer{}

	svc := NewMonitorService(testConfig(), ch, sp, pl, nil, nil)
	svc.Poll(context.Background())

	if svc.cursor != "" {
		t.Fatalf("cursor = %q, want unchanged after failure", svc.cursor)
	}

	// Backend recovers: the same message is processed on the next poll.
	sp.err = nil
	svc.Poll(context.Background())
	if len(pl.played) != 1 {
		t.Errorf("played %d clips after recovery, want 1", len(pl.played))
	}
	if svc.cursor != "100" {
		t.Errorf("cursor = %q, want 100 after recovery", svc.cursor)
	}
}

func TestMonitorPoll_FailedOlderMessageNotLostToNewer(t *testing.T) {
	// Two announcements in one batch; synthesis fails for the older one.
	// The newer one must not be processed in the same poll, or the cursor
	// would move past the failed key and drop it for good.
	older := "📅 *今日の予定 - 2021年06月16日 (Wednesday)*\n\n📊 合計 1 件の予定があります"
	newer := "📅 *今日の予定 - 2021年06月17日 (Thursday)*\n\n📊 合計 2 件の予定があります"
	ch := &fakeChannel{messages: []domain.ChannelMessage{
		{Handle: "om_1", Text: older, SenderName: "Calendar Bot", TimestampKey: "100"},
		{Handle: "om_2", Text: newer, SenderName: "Calendar Bot", TimestampKey: "200"},
	}}
	sp := &fakeSpeech{failOn: "1件"}
	pl := &fakePlayer{}

	svc := NewMonitorService(testConfig(), ch, sp, pl, nil, nil)
	svc.Poll(context.Background())

	if svc.cursor != "" {
		t.Fatalf("cursor = %q, want unchanged while the older message is unprocessed", svc.cursor)
	}
	if len(pl.played) != 0 {
		t.Fatalf("played %d clips, want 0: the newer message must wait behind the failed one", len(pl.played))
	}

	// Backend recovers: both messages are spoken, oldest first.
	sp.failOn = ""
	svc.Poll(context.Background())
	svc.Poll(context.Background())

	if len(pl.played) != 2 {
		t.Fatalf("played %d clips after recovery, want 2", len(pl.played))
	}
	if !strings.Contains(sp.inputs[0], "1件") {
		t.Errorf("first spoken script = %q, want the older message's", sp.inputs[0])
	}
	if svc.cursor != "200" {
		t.Errorf("cursor = %q, want 200", svc.cursor)
	}
}

func TestMonitorPoll_ClipCacheSkipsResynthesis(t *testing.T) {
	ch := &fakeChannel{messages: []domain.ChannelMessage{
		{Handle: "om_1", Text: announcementText, SenderName: "Calendar Bot", TimestampKey: "100"},
	}}
	sp := &fakeSpeech{}
	pl := &fakePlayer{err: errors.New("device busy")}

	svc := NewMonitorService(testConfig(), ch, sp, pl, nil, nil)
	svc.Poll(context.Background())
	if len(sp.inputs) != 1 {
		t.Fatalf("synthesized %d scripts, want 1", len(sp.inputs))
	}

	// Playback recovers: the cached clip is reused, no second synthesis.
	pl.err = nil
	svc.Poll(context.Background())
	if len(sp.inputs) != 1 {
		t.Errorf("synthesized %d scripts after retry, want 1 (cache hit)", len(sp.inputs))
	}
	if len(pl.played) != 1 {
		t.Errorf("played %d clips, want 1", len(pl.played))
	}
}

func TestMonitorCheckpoint(t *testing.T) {
	store := newFakeCursorStore()
	ch := &fakeChannel{messages: []domain.ChannelMessage{
		{Handle: "om_1", Text: announcementText, SenderName: "Calendar Bot", TimestampKey: "1700000000100"},
	}}

	svc := NewMonitorService(testConfig(), ch, &fakeSpeech{}, &fakePlayer{}, store, nil)
	svc.Poll(context.Background())

	if got := store.values["oc_test"]; got != "1700000000100" {
		t.Errorf("checkpoint = %q, want 1700000000100", got)
	}

	// A fresh monitor restores the watermark and does not replay.
	sp2 := &fakeSpeech{}
	svc2 := NewMonitorService(testConfig(), ch, sp2, &fakePlayer{}, store, nil)
	if svc2.cursor != "1700000000100" {
		t.Fatalf("restored cursor = %q, want 1700000000100", svc2.cursor)
	}
	svc2.Poll(context.Background())
	if len(sp2.inputs) != 0 {
		t.Errorf("synthesized %d scripts after restore, want 0", len(sp2.inputs))
	}
}

func TestMonitorPoll_ListErrorKeepsCursor(t *testing.T) {
	ch := &fakeChannel{listErr: errors.New("transport error")}
	svc := NewMonitorService(testConfig(), ch, &fakeSpeech{}, &fakePlayer{}, nil, nil)
	svc.cursor = "500"

	svc.Poll(context.Background())
	if svc.cursor != "500" {
		t.Errorf("cursor = %q, want 500 after list error", svc.cursor)
	}
}
