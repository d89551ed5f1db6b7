package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供路径/文件/策略/判定结果字段，供请求日志复用。
func RequestFields(path, file, strategy, decision string, status int) logrus.Fields {
	return logrus.Fields{
		"path":     path,
		"file":     file,
		"strategy": strategy,
		"decision": decision,
		"status":   status,
	}
}
