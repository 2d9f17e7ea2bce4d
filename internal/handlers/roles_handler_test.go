package handlers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/security"
)

func rolesCallback(h *HandlerManager, userID int64, bot *fakeBot, command string, args ...string) {
	h.HandleRolesCallback(cb(userID), command, args, bot)
}

func seedInvite(store *memStore, role string) *models.InviteCode {
	invite := &models.InviteCode{
		FarmID:    store.farms[0].ID,
		Code:      "ABCD2345",
		Role:      role,
		CreatedBy: store.users[0].ID,
		ExpiresAt: time.Now().UTC().Add(72 * time.Hour),
	}
	store.CreateInvite(invite)
	return invite
}

func seedLoneUser(store *memStore, telegramID int64) *models.User {
	user := &models.User{TelegramID: telegramID, FullName: "Newcomer"}
	store.CreateUser(user)
	return user
}

func TestRedeemValidCode(t *testing.T) {
	h, store := newTestManager()
	seedInvite(store, models.RoleWorker)
	user := seedLoneUser(store, 700)
	bot := &fakeBot{}

	rolesCallback(h, 700, bot, "redeem")
	h.HandleRolesInput(msg(700, "abcd2345"), bot)

	member, err := store.GetMembership(user.ID)
	if err != nil {
		t.Fatalf("membership not created: %v", err)
	}
	if member.Role != models.RoleWorker {
		t.Errorf("role = %q, want worker", member.Role)
	}
	want := fmt.Sprintf(MsgRedeemOK, "Green Acres", models.RoleWorker)
	if bot.last().Text != want {
		t.Errorf("message = %q, want %q", bot.last().Text, want)
	}
	if h.Sessions.Get(700).Active() {
		t.Error("redeem flow should be complete")
	}
}

func TestRedeemBoundedAttempts(t *testing.T) {
	h, store := newTestManager()
	seedLoneUser(store, 700)
	bot := &fakeBot{}

	rolesCallback(h, 700, bot, "redeem")

	h.HandleRolesInput(msg(700, "WRONG1"), bot)
	if want := fmt.Sprintf(MsgRedeemInvalid, 1, 3); bot.last().Text != want {
		t.Errorf("attempt 1 message = %q, want %q", bot.last().Text, want)
	}
	h.HandleRolesInput(msg(700, "WRONG2"), bot)
	if want := fmt.Sprintf(MsgRedeemInvalid, 2, 3); bot.last().Text != want {
		t.Errorf("attempt 2 message = %q, want %q", bot.last().Text, want)
	}
	h.HandleRolesInput(msg(700, "WRONG3"), bot)
	if bot.last().Text != MsgRedeemGiveUp {
		t.Errorf("attempt 3 message = %q, want %q", bot.last().Text, MsgRedeemGiveUp)
	}
	if h.Sessions.Get(700).Active() {
		t.Error("flow must be cancelled after the third failure")
	}

	// Typing more codes after the give-up is ignored by the flow router.
	h.HandleRolesInput(msg(700, "WRONG4"), bot)
	if bot.last().Text != MsgRedeemGiveUp {
		t.Error("a cancelled flow should not keep consuming input")
	}
}

func TestRedeemUsedCode(t *testing.T) {
	h, store := newTestManager()
	invite := seedInvite(store, models.RoleViewer)
	usedBy := store.users[0].ID
	invite.UsedBy = &usedBy
	seedLoneUser(store, 700)
	bot := &fakeBot{}

	rolesCallback(h, 700, bot, "redeem")
	h.HandleRolesInput(msg(700, invite.Code), bot)

	if want := fmt.Sprintf(MsgRedeemInvalid, 1, 3); bot.last().Text != want {
		t.Errorf("message = %q, want %q", bot.last().Text, want)
	}
}

func TestRedeemRejectedForExistingMembers(t *testing.T) {
	h, store := newTestManager()
	seedInvite(store, models.RoleWorker)
	bot := &fakeBot{}

	// The owner already belongs to the farm.
	rolesCallback(h, 100, bot, "redeem")
	h.HandleRolesInput(msg(100, "ABCD2345"), bot)

	if bot.last().Text != MsgAlreadyMember {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgAlreadyMember)
	}
	if len(store.members) != 1 {
		t.Error("no extra membership should be created")
	}
}

func TestRedeemDeepLink(t *testing.T) {
	h, store := newTestManager()
	invite := seedInvite(store, models.RoleManager)
	user := seedLoneUser(store, 700)
	bot := &fakeBot{}

	h.RedeemDeepLink(700, strings.ToLower(invite.Code), bot)

	member, err := store.GetMembership(user.ID)
	if err != nil {
		t.Fatalf("membership not created: %v", err)
	}
	if member.Role != models.RoleManager {
		t.Errorf("role = %q, want manager", member.Role)
	}
}

func TestRedeemDeepLinkBadCode(t *testing.T) {
	h, store := newTestManager()
	seedLoneUser(store, 700)
	bot := &fakeBot{}

	h.RedeemDeepLink(700, "ZZZZ9999", bot)

	if bot.last().Text != MsgInviteBadToken {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgInviteBadToken)
	}
	if len(store.members) != 1 {
		t.Error("no membership should be created from an unknown code")
	}
}

func TestRedeemForwardedToken(t *testing.T) {
	h, store := newTestManager()
	invite := seedInvite(store, models.RoleWorker)
	user := seedLoneUser(store, 700)
	bot := &fakeBot{}

	token, err := security.SignInviteToken(invite.Code, invite.FarmID, h.Config.InviteSecret, time.Hour)
	if err != nil {
		t.Fatalf("SignInviteToken: %v", err)
	}

	rolesCallback(h, 700, bot, "redeem")
	h.HandleRolesInput(msg(700, token), bot)

	member, err := store.GetMembership(user.ID)
	if err != nil {
		t.Fatalf("membership not created: %v", err)
	}
	if member.Role != models.RoleWorker {
		t.Errorf("role = %q, want worker", member.Role)
	}
	if h.Sessions.Get(700).Active() {
		t.Error("redeem flow should be complete")
	}
}

func TestRedeemForgedTokenCountsAsAttempt(t *testing.T) {
	h, store := newTestManager()
	invite := seedInvite(store, models.RoleWorker)
	seedLoneUser(store, 700)
	bot := &fakeBot{}

	forged, err := security.SignInviteToken(invite.Code, invite.FarmID, "wrong-secret", time.Hour)
	if err != nil {
		t.Fatalf("SignInviteToken: %v", err)
	}

	rolesCallback(h, 700, bot, "redeem")
	h.HandleRolesInput(msg(700, forged), bot)

	if want := fmt.Sprintf(MsgRedeemInvalid, 1, 3); bot.last().Text != want {
		t.Errorf("message = %q, want %q", bot.last().Text, want)
	}
	if len(store.members) != 1 {
		t.Error("a forged token must not create a membership")
	}
}

func TestRevokeInvite(t *testing.T) {
	h, store := newTestManager()
	invite := seedInvite(store, models.RoleWorker)
	bot := &fakeBot{}

	rolesCallback(h, 100, bot, "revoke")
	h.HandleRolesInput(msg(100, invite.Code), bot)

	if want := fmt.Sprintf(MsgRevokeOK, invite.Code); bot.last().Text != want {
		t.Errorf("message = %q, want %q", bot.last().Text, want)
	}
	if invite.Usable(time.Now().UTC()) {
		t.Error("revoked invite must no longer be usable")
	}
}

func TestRevokeBoundedAttempts(t *testing.T) {
	h, _ := newTestManager()
	bot := &fakeBot{}

	rolesCallback(h, 100, bot, "revoke")
	h.HandleRolesInput(msg(100, "NOPE1"), bot)
	h.HandleRolesInput(msg(100, "NOPE2"), bot)
	h.HandleRolesInput(msg(100, "NOPE3"), bot)

	if bot.last().Text != MsgRevokeGiveUp {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgRevokeGiveUp)
	}
	if h.Sessions.Get(100).Active() {
		t.Error("flow must be cancelled after the third failure")
	}
}

func TestCreateInviteSendsDeepLink(t *testing.T) {
	h, store := newTestManager()
	bot := &fakeBot{}

	rolesCallback(h, 100, bot, "invrole", models.RoleWorker)

	if len(store.invites) != 1 {
		t.Fatalf("invites = %d, want 1", len(store.invites))
	}
	invite := store.invites[0]
	if invite.Role != models.RoleWorker {
		t.Errorf("role = %q, want worker", invite.Role)
	}
	if len(invite.Code) != h.Config.InviteCodeLength {
		t.Errorf("code length = %d, want %d", len(invite.Code), h.Config.InviteCodeLength)
	}
	if !strings.Contains(bot.last().Text, "https://t.me/farm_test_bot?start=inv_"+invite.Code) {
		t.Errorf("message should carry the deep link, got %q", bot.last().Text)
	}

	// Telegram caps /start parameters at 64 characters of
	// [A-Za-z0-9_-], so the link must carry the bare code.
	payload := "inv_" + invite.Code
	if len(payload) > 64 {
		t.Errorf("start parameter is %d chars, limit is 64", len(payload))
	}
	for _, r := range payload {
		ok := r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			t.Errorf("start parameter contains %q, outside the allowed charset", r)
		}
	}

	// The forwardable token is the message's last line and must verify
	// against the configured secret.
	lines := strings.Split(bot.last().Text, "\n")
	claims, err := security.ParseInviteToken(lines[len(lines)-1], h.Config.InviteSecret)
	if err != nil {
		t.Fatalf("message token does not verify: %v", err)
	}
	if claims.Code != invite.Code {
		t.Errorf("token code = %q, want %q", claims.Code, invite.Code)
	}
}

func TestSetRoleAndRemoveMember(t *testing.T) {
	h, store := newTestManager()
	seedMember(store, 800, models.RoleWorker)
	bot := &fakeBot{}

	var memberID uint
	for _, m := range store.members {
		if m.Role == models.RoleWorker {
			memberID = m.ID
		}
	}

	rolesCallback(h, 100, bot, "setrole", fmt.Sprintf("%d", memberID), models.RoleViewer)
	member, err := store.GetMemberByID(store.farms[0].ID, memberID)
	if err != nil {
		t.Fatalf("member lookup: %v", err)
	}
	if member.Role != models.RoleViewer {
		t.Errorf("role = %q, want viewer", member.Role)
	}

	rolesCallback(h, 100, bot, "remove", fmt.Sprintf("%d", memberID))
	if _, err := store.GetMemberByID(store.farms[0].ID, memberID); err == nil {
		t.Error("member should be removed")
	}
}

func TestOwnerRoleCannotChange(t *testing.T) {
	h, store := newTestManager()
	bot := &fakeBot{}

	ownerMemberID := store.members[0].ID
	rolesCallback(h, 100, bot, "setrole", fmt.Sprintf("%d", ownerMemberID), models.RoleViewer)

	if store.members[0].Role != models.RoleOwner {
		t.Error("the owner's role must not change")
	}
	if bot.last().Text != MsgRoleOwnerFixed {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgRoleOwnerFixed)
	}
}
