package bot

import (
	"strings"
	"testing"

	tg "github.com/m3rciful/subbot/core/telegram"
	"github.com/m3rciful/subbot/internal/picker"

	tele "gopkg.in/telebot.v4"
)

// fakeContext implements the slice of tele.Context the adapter touches.
type fakeContext struct {
	tele.Context
	sender   *tele.User
	args     []string
	callback *tele.Callback
	store    map[string]any

	sent      []any
	edits     []any
	responses []*tele.CallbackResponse
}

func newFake(sender int64, args ...string) *fakeContext {
	return &fakeContext{sender: &tele.User{ID: sender}, args: args, store: map[string]any{}}
}

func (f *fakeContext) Update() tele.Update      { return tele.Update{ID: 1} }
func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Chat() *tele.Chat         { return &tele.Chat{ID: f.sender.ID} }
func (f *fakeContext) Args() []string           { return f.args }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }
func (f *fakeContext) Get(key string) any       { return f.store[key] }
func (f *fakeContext) Set(key string, v any)    { f.store[key] = v }
func (f *fakeContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, what)
	return nil
}
func (f *fakeContext) Edit(what any, _ ...any) error {
	f.edits = append(f.edits, what)
	return nil
}
func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) > 0 {
		f.responses = append(f.responses, resp[0])
	} else {
		f.responses = append(f.responses, nil)
	}
	return nil
}

func TestRegisterWiresCommandsAndCallbacks(t *testing.T) {
	ctrl := newController(t)
	reg := tg.NewRegistry()
	if err := NewTelegram(ctrl).Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(reg.Commands()) != len(ctrl.Commands()) {
		t.Fatalf("commands = %d, want %d", len(reg.Commands()), len(ctrl.Commands()))
	}
	menu := reg.ListCommands(true)
	if len(menu) != 1 || menu[0].Text != "/help" {
		t.Fatalf("public menu = %+v", menu)
	}
	for _, cmd := range reg.ListCommands(false) {
		if cmd.Text == "/start" {
			t.Fatal("/start should stay out of the admin menu")
		}
	}
	if _, _, ok := reg.LookupCommand("/start"); !ok {
		t.Fatal("/start must still be routed")
	}
	if got := reg.ListCallbacks(); len(got) != len(picker.Uniques()) {
		t.Fatalf("callbacks = %v", got)
	}
	if err := NewTelegram(ctrl).Register(reg); err == nil {
		t.Fatal("second Register should report duplicates")
	}
}

func TestMarkup(t *testing.T) {
	rows := []picker.Row{
		{{Label: "HK -> u1", Token: picker.Toggle("HK")}},
		{{Label: picker.LabelNext, Token: picker.Next(1)}},
		{{Label: picker.LabelCommit, Token: picker.Commit()}},
	}
	m := Markup(rows)
	if len(m.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d", len(m.InlineKeyboard))
	}
	btn := m.InlineKeyboard[1][0]
	if btn.Unique != picker.UniqueNext || btn.Data != "1" || btn.Text != picker.LabelNext {
		t.Fatalf("next button = %+v", btn)
	}
	if done := m.InlineKeyboard[2][0]; done.Unique != picker.UniqueCommit || done.Data != "" {
		t.Fatalf("commit button = %+v", done)
	}
}

func TestCommandHandlerSendsReply(t *testing.T) {
	ctrl := newController(t)
	tgm := NewTelegram(ctrl)

	c := newFake(admin, "HK", "https://hk")
	if err := tgm.command("ad")(c); err != nil {
		t.Fatal(err)
	}
	if len(c.sent) != 1 || c.sent[0] != "Added subscription: HK -> https://hk" {
		t.Fatalf("sent = %v", c.sent)
	}

	denied := newFake(stranger, "X", "y")
	if err := tgm.command("ad")(denied); err != nil {
		t.Fatalf("denied command returned %v, want nil", err)
	}
	if denied.sent[0] != msgDenied || denied.store["handler_outcome"] != "denied" || denied.store["handler_err_code"] != CodePermissionDenied {
		t.Fatalf("denied: sent=%v store=%v", denied.sent, denied.store)
	}
}

func TestCallbackHandlerEditsAndAnswers(t *testing.T) {
	ctrl := newController(t)
	tgm := NewTelegram(ctrl)
	_ = tgm.command("ad")(newFake(admin, "HK", "https://hk"))

	c := newFake(admin)
	c.callback = &tele.Callback{Data: picker.Toggle("HK").Data()}
	if err := tgm.callback(c); err != nil {
		t.Fatal(err)
	}
	if len(c.responses) != 1 || len(c.edits) != 1 {
		t.Fatalf("responses=%v edits=%v", c.responses, c.edits)
	}
	markup, ok := c.edits[0].(*tele.ReplyMarkup)
	if !ok || !strings.HasPrefix(markup.InlineKeyboard[0][0].Text, picker.SelectedMarker) {
		t.Fatalf("edit = %#v", c.edits[0])
	}

	bad := newFake(admin)
	bad.callback = &tele.Callback{Data: "combine"}
	if err := tgm.callback(bad); err != nil {
		t.Fatal(err)
	}
	if len(bad.responses) != 1 || bad.responses[0].Text != MsgBadToken || !bad.responses[0].ShowAlert {
		t.Fatalf("bad token responses = %+v", bad.responses)
	}
	if len(bad.edits) != 0 || ctrl.Status().Selected != 1 {
		t.Fatal("bad token must not touch the picker")
	}
}

func TestRoutesInstallFallbacks(t *testing.T) {
	ctrl := newController(t)
	tgm := NewTelegram(ctrl)
	reg := tg.NewRegistry()
	if err := tgm.Register(reg); err != nil {
		t.Fatal(err)
	}

	endpoints := map[any]bool{}
	for _, r := range tgm.Routes(reg) {
		if r.Handler == nil {
			t.Fatalf("route %v has no handler", r.Endpoint)
		}
		endpoints[r.Endpoint] = true
	}
	for _, want := range []any{"/ad", "/convert", tele.OnText, tele.OnDocument, tele.OnCallback} {
		if !endpoints[want] {
			t.Fatalf("no route for %v in %v", want, endpoints)
		}
	}

	notFound := reg.CallbackNotFound()
	if notFound == nil {
		t.Fatal("Routes should install the unknown-callback handler")
	}
	c := newFake(admin)
	c.callback = &tele.Callback{Data: "\fsomething_else|1"}
	if err := notFound(c); err != nil {
		t.Fatal(err)
	}
	if len(c.responses) != 1 || c.responses[0].Text != MsgBadToken || !c.responses[0].ShowAlert {
		t.Fatalf("responses = %+v", c.responses)
	}
	if c.store["handler_err_code"] != "BAD_TOKEN" {
		t.Fatalf("store = %v", c.store)
	}
}

func TestUnknownTextReply(t *testing.T) {
	c := newFake(stranger)
	if err := NewTelegram(newController(t)).UnknownText()(c); err != nil {
		t.Fatal(err)
	}
	if len(c.sent) != 1 || c.sent[0] != MsgUnknownText {
		t.Fatalf("sent = %v", c.sent)
	}
}
