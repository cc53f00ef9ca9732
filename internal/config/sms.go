package config

type SMSConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Provider         string        `yaml:"provider"` // twilio or sns
	EscalationPhones []string      `yaml:"escalation_phones"`
	Twilio           *TwilioConfig `yaml:"twilio"`
	SNS              *SNSConfig    `yaml:"sns"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SNSConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

func loadSMSConfig() *SMSConfig {
	return &SMSConfig{
		Enabled:          getEnvAsBool("SMS_ENABLED", false),
		Provider:         getEnv("SMS_PROVIDER", "twilio"),
		EscalationPhones: getEnvAsSlice("SOS_ESCALATION_PHONES", nil),
		Twilio: &TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		},
		SNS: &SNSConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
	}
}
