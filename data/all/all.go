// Package all registers every database and message driver the service ships with.
//
//	import _ "github.com/ncobase/taskmanager/data/all"
package all

import (
	// Database drivers
	_ "github.com/ncobase/taskmanager/data/mysql"
	_ "github.com/ncobase/taskmanager/data/postgres"
	_ "github.com/ncobase/taskmanager/data/sqlite"

	// Message drivers
	_ "github.com/ncobase/taskmanager/data/messaging/kafka"
	_ "github.com/ncobase/taskmanager/data/messaging/rabbitmq"
	_ "github.com/ncobase/taskmanager/data/messaging/redis"
)
