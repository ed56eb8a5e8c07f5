package util

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// InitSnowflake 初始化雪花 ID 节点（进程启动时调用一次）。
// nodeID 需在部署实例间唯一，否则会产生重复 ID。
func InitSnowflake(nodeID int64) error {
	var err error
	nodeOnce.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// NextID 生成一个趋势递增的雪花 ID。
func NextID() int64 {
	return node.Generate().Int64()
}

// GenEntityID 生成实体对外 ID（Base36 编码的雪花 ID，长度不超过 13 位，
// 落库为 char(20) 列）。所有表间引用都使用该 ID，而不是自增主键。
func GenEntityID() string {
	return node.Generate().Base36()
}
