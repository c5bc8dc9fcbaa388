package postgres

import (
	"mastodonbridge/src/helper/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReadWriteClient separa o pool de leitura (réplica) do pool de escrita (primário).
type ReadWriteClient struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
}

func NewReadWriteClient(cfg config.DatabaseConfig) (*ReadWriteClient, error) {
	writePool, err := NewPostgresClient(cfg.WriteHost, cfg.WritePort, cfg.Name, cfg.User, cfg.Password, cfg.MaxConnections)
	if err != nil {
		return nil, err
	}

	readPool, err := NewPostgresClient(cfg.ReadHostOrWrite(), cfg.ReadPort, cfg.Name, cfg.User, cfg.Password, cfg.MaxConnections)
	if err != nil {
		writePool.Close()
		return nil, err
	}

	return &ReadWriteClient{
		readPool:  readPool,
		writePool: writePool,
	}, nil
}

func (rwc *ReadWriteClient) GetReadPool() *pgxpool.Pool {
	return rwc.readPool
}

func (rwc *ReadWriteClient) GetWritePool() *pgxpool.Pool {
	return rwc.writePool
}

func (rwc *ReadWriteClient) Close() {
	rwc.readPool.Close()
	rwc.writePool.Close()
}
