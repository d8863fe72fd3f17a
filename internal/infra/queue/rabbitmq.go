// Package queue は注文イベントをRabbitMQで受け渡す。
package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cardstash/internal/domain/model"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}
	return conn, nil
}

// durableなキューを宣言する（何度呼んでもよい）
func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return errors.Wrapf(err, "declare queue %s", queue)
}

type Publisher struct {
	mu    sync.Mutex
	ch    *amqp.Channel
	queue string
}

func NewPublisher(conn *amqp.Connection, queue string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}
	if err := declare(ch, queue); err != nil {
		ch.Close()
		return nil, err
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev model.OrderPlaced) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}

	// チャネルは並行Publishに向かない
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.Reference,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	return errors.Wrap(err, "publish order event")
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// 1件処理する関数。エラーなら再キューされる
type OrderHandler func(ctx context.Context, ev model.OrderPlaced) error

type Consumer struct {
	conn     *amqp.Connection
	queue    string
	prefetch int
	log      logrus.FieldLogger
}

func NewConsumer(conn *amqp.Connection, queue string, log logrus.FieldLogger) *Consumer {
	return &Consumer{conn: conn, queue: queue, prefetch: 10, log: log}
}

// ctxが終わるまで読み続ける
func (c *Consumer) Run(ctx context.Context, handle OrderHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open channel")
	}
	defer ch.Close()

	if err := declare(ch, c.queue); err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return errors.Wrap(err, "qos")
	}

	msgs, err := ch.Consume(c.queue, "sales-sync", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "consume")
	}

	c.log.WithField("queue", c.queue).Info("consuming order events")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.deliver(ctx, d, handle)
		}
	}
}

type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery, handle OrderHandler) {
	c.process(ctx, d.Body, d.MessageId, &d, handle)
}

// 壊れたメッセージは捨てる。DBエラーは再キュー
func (c *Consumer) process(ctx context.Context, body []byte, msgID string, a acker, handle OrderHandler) {
	log := c.log.WithField("message_id", msgID)

	var ev model.OrderPlaced
	if err := json.Unmarshal(body, &ev); err != nil {
		log.WithError(err).Warn("drop malformed order event")
		_ = a.Nack(false, false)
		return
	}
	if err := ev.Validate(); err != nil {
		log.WithError(err).Warn("drop invalid order event")
		_ = a.Nack(false, false)
		return
	}

	if err := handle(ctx, ev); err != nil {
		log.WithError(err).WithField("order_id", ev.OrderID).Error("sync order failed, requeue")
		_ = a.Nack(false, true)
		return
	}
	_ = a.Ack(false)
}
