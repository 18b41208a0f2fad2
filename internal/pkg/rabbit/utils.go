package rabbit

import "github.com/streadway/amqp"

//DeclareExchange declares the fanout exchange for status events
func DeclareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"fanout",
		false, // durable - events are transient
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
}

//DeclareSubscriberQueue declares an exclusive queue and binds it to the exchange.
//Every subscriber service gets its own copy of every event
func DeclareSubscriberQueue(ch *amqp.Channel, exchange string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		"",    // generated name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return q, err
	}
	err = ch.QueueBind(q.Name, "", exchange, false, nil)
	return q, err
}
