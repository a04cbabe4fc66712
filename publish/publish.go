package publish

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/icodeforyou/solarcalc-go/estimate"
)

// ResultMessage is the JSON document published for every calculation.
type ResultMessage struct {
	Id           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	State        string    `json:"state"`
	SizeKwDc     float64   `json:"sizeKwDc"`
	PricePerKwh  float64   `json:"pricePerKwh"`
	IrrPercent   float64   `json:"irrPercent"`
	IrrConverged bool      `json:"irrConverged"`
	Payback      string    `json:"payback"`
	SystemCost   float64   `json:"systemCost"`
	TaxCredit    float64   `json:"taxCredit"`
	AnnualKWh    float64   `json:"annualKWh"`
	CashFlow     []float64 `json:"cashFlow"`
}

func NewResultMessage(res *estimate.Result, now time.Time) ResultMessage {
	return ResultMessage{
		Id:           res.ID,
		Timestamp:    now.UTC(),
		State:        res.Spec.State,
		SizeKwDc:     res.Spec.SizeKwDc,
		PricePerKwh:  res.PricePerKwh,
		IrrPercent:   res.IRRPercent,
		IrrConverged: res.IRR.Converged,
		Payback:      res.Payback.String(),
		SystemCost:   res.Summary.SystemCost,
		TaxCredit:    res.Summary.TaxCredit,
		AnnualKWh:    res.Summary.AnnualKWh,
		CashFlow:     res.CashFlow,
	}
}

type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher sends calculation results to an MQTT broker, fire and forget.
type Publisher struct {
	client  mqtt.Client
	pub     mqttPublisher
	logger  *slog.Logger
	topic   string
	timeout time.Duration
}

func New(host string, port int16, username string, password string, topic string) *Publisher {
	logger := slog.Default().With("module", "publish")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", host, port))
	opts.SetClientID(fmt.Sprintf("solarcalc-%d", time.Now().Unix()))
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected", slog.String("topic", topic))
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqttLogger := slog.Default().With("module", "mqtt")
	mqtt.CRITICAL = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.WARN = newMqttLogger(mqttLogger, slog.LevelWarn)

	client := mqtt.NewClient(opts)
	return &Publisher{
		client:  client,
		pub:     client,
		logger:  logger,
		topic:   topic,
		timeout: 5 * time.Second,
	}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.logger.Info("disconnecting MQTT client")
	p.client.Disconnect(250)
}

// Publish matches estimate.OnResult. It never blocks the calculation, delivery
// is awaited in the background and failures are only logged.
func (p *Publisher) Publish(res *estimate.Result) {
	payload, err := json.Marshal(NewResultMessage(res, time.Now()))
	if err != nil {
		p.logger.Error("encoding result message", slog.Any("error", err))
		return
	}

	token := p.pub.Publish(p.topic, 0, false, payload)
	go func() {
		if !token.WaitTimeout(p.timeout) {
			p.logger.Warn("timeout when publishing result", slog.String("id", res.ID))
		} else if token.Error() != nil {
			p.logger.Warn("error when publishing result", slog.String("id", res.ID), slog.Any("error", token.Error()))
		}
	}()
}
