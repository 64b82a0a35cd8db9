package mail

type SyncFailureAlertData struct {
	LeadID   string
	LeadName string
	Code     string
	Reason   string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
