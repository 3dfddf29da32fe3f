package conf

import "google.golang.org/protobuf/types/known/durationpb"

// Bootstrap is the root configuration of the DonorLane service.
type Bootstrap struct {
	Server *Server
	Data   *Data
	Audit  *Audit
	Jobs   *Jobs
	Log    *Log
}

type Server struct {
	Http *Server_HTTP
	Grpc *Server_GRPC
}

type Server_HTTP struct {
	Network string
	Addr    string
	Timeout *durationpb.Duration
}

type Server_GRPC struct {
	Network string
	Addr    string
	Timeout *durationpb.Duration
}

type Data struct {
	Database *Data_Database
	Redis    *Data_Redis
}

// Data_Database selects the gorm dialect. Driver is one of mysql, postgres or sqlite.
type Data_Database struct {
	Driver       string
	Source       string
	MaxIdleConns int32
	MaxOpenConns int32
	AutoMigrate  bool
}

type Data_Redis struct {
	Network       string
	Addr          string
	Password      string
	Db            int32
	ReadTimeout   *durationpb.Duration
	WriteTimeout  *durationpb.Duration
	DonorCacheTtl *durationpb.Duration
}

// Audit configures the asynchronous audit writer.
type Audit struct {
	BufferSize int32
}

// Jobs configures scheduled background tasks.
type Jobs struct {
	BaselineSpec    string
	SeedOnStartup   bool
	BaselineTimeout *durationpb.Duration
}

type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}

func (x *Server) GetHttp() *Server_HTTP {
	if x != nil {
		return x.Http
	}
	return nil
}

func (x *Server) GetGrpc() *Server_GRPC {
	if x != nil {
		return x.Grpc
	}
	return nil
}

func (x *Data) GetDatabase() *Data_Database {
	if x != nil {
		return x.Database
	}
	return nil
}

func (x *Data) GetRedis() *Data_Redis {
	if x != nil {
		return x.Redis
	}
	return nil
}

func (x *Server_HTTP) GetAddr() string {
	if x != nil {
		return x.Addr
	}
	return ""
}

func (x *Server_GRPC) GetAddr() string {
	if x != nil {
		return x.Addr
	}
	return ""
}
