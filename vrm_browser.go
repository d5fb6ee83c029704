package main

import (
	"flag"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/vrm_browser/avatar"
	"github.com/mogaika/vrm_browser/config"
	"github.com/mogaika/vrm_browser/utils"
	"github.com/mogaika/vrm_browser/web"
)

func main() {
	var addr, model, cfgPath, webDir string
	var dump bool
	flag.StringVar(&addr, "i", "", "Address of server")
	flag.StringVar(&model, "vrm", "", "Path to .vrm model file")
	flag.StringVar(&cfgPath, "cfg", "", "Path to viewer config file")
	flag.StringVar(&webDir, "web", "", "Path to web resources")
	flag.BoolVar(&dump, "dump", false, "Dump decoded vrm metadata after load")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if addr != "" {
		cfg.ListenAddr = addr
	}
	if model != "" {
		cfg.Model = model
	}
	if webDir != "" {
		cfg.WebDir = webDir
	}

	if cfg.Model == "" {
		flag.PrintDefaults()
		return
	}

	av, err := avatar.LoadFromFile(cfg.Model)
	if err != nil {
		if lerr, ok := err.(*avatar.LoadError); ok {
			for _, w := range lerr.Warnings {
				log.Printf("[vrm] WARNING: %v", w)
			}
		}
		log.Fatal(err)
	}

	log.Printf("[vrm] Loaded %q (%s, %d bones, %v look at)",
		av.Name, av.SpecVersion, len(av.Humanoid.Bones()), av.LookAt.Mode)
	for _, w := range av.Warnings {
		log.Printf("[vrm] WARNING: %v", w)
	}
	if dump {
		utils.Dump(av.Meta, av.LookAt)
	}

	if err := web.StartServer(cfg.ListenAddr, av, cfg.WebDir, mgl32.Vec3(cfg.Target)); err != nil {
		log.Fatal(err)
	}
}
