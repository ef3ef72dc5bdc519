package serverconfig

type Config struct {
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	GameServer GameServerConfig `yaml:"gameserver" mapstructure:"gameserver"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type GameServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// AskTimeoutS 请求打到对局 actor 的等待上限（秒）。
	AskTimeoutS int `yaml:"ask_timeout_s" mapstructure:"ask_timeout_s"`
}

// StorageConfig 选择对局的持久化后端。
type StorageConfig struct {
	// Backend: mongodb / mysql / memory
	Backend string `yaml:"backend" mapstructure:"backend"`
}

// GameConfig 对局规则的服务端默认值（创建请求里未显式给出时生效）。
type GameConfig struct {
	MapWidth      int `yaml:"map_width" mapstructure:"map_width"`
	MapHeight     int `yaml:"map_height" mapstructure:"map_height"`
	MaxTurns      int `yaml:"max_turns" mapstructure:"max_turns"`
	SnapshotEvery int `yaml:"snapshot_every" mapstructure:"snapshot_every"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
