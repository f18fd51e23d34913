package config

import (
	"net"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// DSNValue returns the explicit DSN or assembles one from the discrete fields.
func (c MySQLConfig) DSNValue() string {
	if c.DSN != "" {
		return c.DSN
	}

	dsn := mysqldriver.NewConfig()
	dsn.User = c.User
	dsn.Passwd = c.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	dsn.DBName = c.Name
	dsn.ParseTime = true
	dsn.Loc = time.Local
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range c.Params {
		dsn.Params[k] = v
	}
	return dsn.FormatDSN()
}
