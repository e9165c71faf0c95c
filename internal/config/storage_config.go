package config

const (
	storeBackendVar = "STORE_BACKEND"
	dbDriverVar     = "DB_DRIVER"

	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"

	DBDriverSqlite   = "sqlite"
	DBDriverPostgres = "postgres"
	DBDriverMysql    = "mysql"
)

type StorageConfig interface {
	GetStoreBackend() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetDBDriver() string
	GetDBDSN() string
}

type Storage struct {
	StoreBackend  string `env:"STORE_BACKEND" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	DBDriver      string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN         string `env:"DB_DSN" envDefault:"file:lexora.db?_foreign_keys=on"`
}

var _ StorageConfig = mainConfig{}

func (s Storage) GetStoreBackend() string {
	return s.StoreBackend
}

func (s Storage) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Storage) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Storage) GetRedisDB() int {
	return s.RedisDB
}

func (s Storage) GetDBDriver() string {
	return s.DBDriver
}

func (s Storage) GetDBDSN() string {
	return s.DBDSN
}
