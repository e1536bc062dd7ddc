// ABOUTME: Tests for the consultation form state machine
// ABOUTME: Walks the dialog steps without touching the Telegram API
package bot

import (
	"strings"
	"testing"
)

func TestFormHappyPath(t *testing.T) {
	f := &form{}

	reply, sub := f.advance("Анна Иванова")
	if sub != nil {
		t.Fatal("form completed too early")
	}
	if reply != replyAskContact {
		t.Errorf("after name reply = %q", reply)
	}

	reply, sub = f.advance("+7 (999) 123-45-67")
	if sub != nil {
		t.Fatal("form completed too early")
	}
	if reply != replyAskRequest {
		t.Errorf("after contact reply = %q", reply)
	}

	_, sub = f.advance("Нужна помощь с договором аренды")
	if sub == nil {
		t.Fatal("form must complete after the request step")
	}
	if sub.Name != "Анна Иванова" {
		t.Errorf("Name = %q", sub.Name)
	}
	if sub.Contact != "+79991234567" {
		t.Errorf("Contact = %q, want normalized phone", sub.Contact)
	}
	if sub.Request != "Нужна помощь с договором аренды" {
		t.Errorf("Request = %q", sub.Request)
	}
}

func TestFormInvalidContactStays(t *testing.T) {
	f := &form{}
	f.advance("Имя")

	reply, sub := f.advance("???")
	if sub != nil {
		t.Fatal("form must not complete on an invalid contact")
	}
	if !strings.Contains(reply, "Не удалось распознать контакт") {
		t.Errorf("reply = %q, want the validation message", reply)
	}
	if f.stage != stageContact {
		t.Errorf("stage = %d, want stageContact", f.stage)
	}

	// A valid contact afterwards moves the form along.
	reply, sub = f.advance("user@example.com")
	if sub != nil || reply != replyAskRequest {
		t.Errorf("valid contact must advance: reply %q", reply)
	}
}

func TestFormBlankInputsRepeatPrompt(t *testing.T) {
	f := &form{}
	if reply, _ := f.advance("   "); reply != replyAskName {
		t.Errorf("blank name reply = %q", reply)
	}
	f.advance("Имя")
	f.advance("user@example.com")
	if reply, sub := f.advance(""); sub != nil || reply != replyAskRequest {
		t.Errorf("blank request must repeat the prompt: %q", reply)
	}
}
