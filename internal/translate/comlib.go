package translate

import (
	"regexp"
	"strconv"

	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/logline"
)

type translatorFunc func(rec logline.Record) (string, bool)

// lookupTranslator returns the value translator for a flavor, if any.
// ComLib and AndroidLogcat (which can carry embedded ComLib messages)
// share the same one.
func lookupTranslator(t flavor.Type) (translatorFunc, bool) {
	switch t {
	case flavor.ComLib, flavor.AndroidLogcat:
		return comlibTranslate, true
	default:
		return nil, false
	}
}

func comlibTranslate(rec logline.Record) (string, bool) {
	if out, ok := translateMessageState(rec); ok {
		return out, true
	}
	if out, ok := translateGCInfo(rec); ok {
		return out, true
	}
	return "", false
}

var (
	filterType  = regexp.MustCompile(`(?i); type=(\d+);`)
	filterState = regexp.MustCompile(`(?i); state=(\d+);`)
)

// replaceParam finds re's first match in params and swaps its captured
// group for translate's rendering of the captured integer. Returns
// false if re didn't match, the integer didn't parse, or translate
// declined (empty string, matching the original's "unknown value" exit).
func replaceParam(params string, re *regexp.Regexp, translate func(int8) string) (string, bool) {
	loc := re.FindStringSubmatchIndex(params)
	if loc == nil || len(loc) < 4 {
		return "", false
	}
	n, err := strconv.ParseInt(params[loc[2]:loc[3]], 10, 8)
	if err != nil {
		return "", false
	}
	newVal := translate(int8(n))
	if newVal == "" {
		return "", false
	}
	return params[:loc[2]] + newVal + params[loc[3]:], true
}

type messageStateRule struct {
	tag, methodSuffix, msg string
}

var messageStateRules = []messageStateRule{
	{"COMLib.ChatController", "storeMessage", "Storing message"},
	{"COMLib.ChatController", "storeMessage", "Message Stored"},
	{"COMLib.ChatController", "onMessageHandled", "Message Handled"},
	{"COMLib.ChatController", "onUpdateMessageData", "Message state updated"},
	{"COMLib.ChatController", "onUpdateMessageState", "Message state updated"},
	{"COMLib.ChatController", "onSendPendingMessagesCompleted", "Send pending messages completed"},
	{"COMLib.ChatController", "onNotificationResponse", "Message Notification Response"},
	{"COMLib.Sync.CMSProducer", "processNewIMDN", "message notified"},
	{"COMLib.Sync.CMSProducer", "processNewIMDN", "message state updated"},
	{"COMLib.Sync.CMSProducer", "processNewIMDN", "sending notification"},
	{"COMLib.GroupChatController", "onGroupChatMessageUpdated", "Chat message updated"},
	{"COMLib.FileTransferController.HTTPFileTransfer", "onChatMessageSynced", ""},
	{"COMLib.ChatController.SMSoIP", "sendNotification", "sending notification"},
	{"COMLib.ChatController.SMSoIP", "handleIncomingNotification", "Incoming notification"},
	{"COMLib.ChatController.SMS", "sendNotification", "Sending message"},
	{"COMLib.ChatController.RCS", "onMessageState", "onMessageState"},
	{"COMLib.ChatController.OMASIMPLEIM", "sendNotification", "Sending Notification"},
	{"COMLib.ChatController.CPM", "sendNotification", "sending Notification"},
	{"COMLib.LegacyStandalone", "sendNotification", "sending notification"},
	{"COMLib.ChatController.OMACPMStandalone", "sendNotification", "sending notification"},
	{"COMLib.ChatController.OMACPMStandalone", "onIncomingCPMNotification", "Incoming CPM standalone notification"},
	{"COMLib.Chatbot", "onMessageUpdated", "Checking pending delete token operations"},
}

func messageStateName(v int8) string {
	switch v {
	case 0:
		return "none"
	case 1:
		return "pending"
	case 2:
		return "sending"
	case 3:
		return "sent"
	case 4:
		return "received"
	case 5:
		return "failed"
	case 6:
		return "delivered"
	case 7:
		return "displayed"
	default:
		return "unknown"
	}
}

func translateMessageState(rec logline.Record) (string, bool) {
	matched := false
	for _, rule := range messageStateRules {
		if rec.CheckTag(logline.Exact, rule.tag) && rec.CheckMethod(logline.EndsWith, rule.methodSuffix) && rec.CheckMsg(logline.Exact, rule.msg) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	return replaceParam(rec.Params(), filterState, messageStateName)
}

func gcInfoTypeName(v int8) string {
	switch v {
	case 0:
		return "none"
	case 1:
		return "rcs"
	case 2:
		return "broadcast"
	case 3:
		return "groupMMS"
	default:
		return "unknown"
	}
}

func gcInfoStateName(v int8) string {
	switch v {
	case 0:
		return "none"
	case 1:
		return "inviting"
	case 2:
		return "invited"
	case 3:
		return "connecting"
	case 4:
		return "connected"
	case 5:
		return "disconnected"
	case 6:
		return "closed"
	default:
		return "unknown"
	}
}

func translateGCInfo(rec logline.Record) (string, bool) {
	if !rec.CheckTag(logline.Exact, "COMLib.GroupChatController") {
		return "", false
	}
	hasBoth := rec.CheckMsg(logline.Exact, "storing updated gc info")
	hasType := hasBoth || rec.CheckMsg(logline.Exact, "storing new gc info")
	if !hasType {
		return "", false
	}

	params := rec.Params()
	success := false

	if out, ok := replaceParam(params, filterType, gcInfoTypeName); ok {
		params = out
		success = true
	}
	if hasBoth {
		if out, ok := replaceParam(params, filterState, gcInfoStateName); ok {
			params = out
			success = true
		}
	}

	if !success {
		return "", false
	}
	return params, true
}
