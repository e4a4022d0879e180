package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/harrycollin/simple-raytracer/pkg/metrics"
	"github.com/harrycollin/simple-raytracer/web/server"
)

var port = flag.Int("port", 8080, "Port to serve on.")

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := metrics.RegisterViews(); err != nil {
		glog.Fatalf("Failed to register metric views: %v", err)
	}

	webServer := server.NewServer(*port)

	glog.Infof("Progressive Raytracer Web Server")
	glog.Infof("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		glog.Exitf("Error starting server: %v", err)
	}
}
